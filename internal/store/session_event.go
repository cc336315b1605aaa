package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.SessionID == "" || data.Action == "" {
		return fmt.Errorf("save session event: session id and action are required")
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite().Insert(tableSessionEvents).
		Columns("sequence", "timestamp", "session_id", "topic_id", "action",
			"questions_served", "correct_answers", "duration_secs").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.TopicID, data.Action,
			data.QuestionsServed, data.CorrectAnswers, data.DurationSecs).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite().Insert(tableAnswerEvents).
		Columns("sequence", "timestamp", "session_id", "topic_id", "question_id",
			"question_text", "correct_index", "chosen_index", "correct", "time_ms").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.TopicID, data.QuestionID,
			data.QuestionText, data.CorrectIndex, data.ChosenIndex, data.Correct, data.TimeMs).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	b := sqlite()
	sel := b.Select("session_id", "topic_id", "timestamp", "questions_served",
		"correct_answers", "duration_secs").
		From(b.Table(tableSessionEvents)).
		Where(entsql.EQ("action", "end")).
		OrderBy(entsql.Desc("sequence"))
	query, args := applyOpts(sel, opts).Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var records []SessionSummaryRecord
	for rows.Next() {
		var (
			rec SessionSummaryRecord
			ts  sql.NullTime
		)
		err := rows.Scan(&rec.SessionID, &rec.TopicID, &ts, &rec.QuestionsServed,
			&rec.CorrectAnswers, &rec.DurationSecs)
		if err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		rec.Timestamp = ts.Time
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) TopicAccuracy(ctx context.Context, topicID string) (float64, int, error) {
	b := sqlite()
	query, args := b.Select("correct").
		From(b.Table(tableAnswerEvents)).
		Where(entsql.EQ("topic_id", topicID)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, 0, fmt.Errorf("query topic accuracy: %w", err)
	}
	defer rows.Close()

	total, correct := 0, 0
	for rows.Next() {
		var ok bool
		if err := rows.Scan(&ok); err != nil {
			return 0, 0, fmt.Errorf("scan topic accuracy: %w", err)
		}
		total++
		if ok {
			correct++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("query topic accuracy: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(correct) / float64(total), total, nil
}
