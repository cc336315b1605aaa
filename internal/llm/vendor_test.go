package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const generatedQuestion = `{"question_text":"Solve $x^2-4=0$","options":["$\\pm 2$","2","4","0"],"correct_index":0}`

func serveJSON(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func anthropicAt(url string) *AnthropicProvider {
	c := anthropic.NewClient(option.WithAPIKey("test"), option.WithBaseURL(url), option.WithMaxRetries(0))
	return &AnthropicProvider{client: &c, model: resolveModel(ProviderAnthropic, "claude-haiku")}
}

func openaiAt(url string) *OpenAIProvider {
	cfg := openai.DefaultConfig("test")
	cfg.BaseURL = url + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), model: "gpt-4o-mini"}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, map[string]any{
		"id": "msg_1", "type": "message", "role": "assistant",
		"content":     []map[string]any{{"type": "text", "text": generatedQuestion}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	})

	resp, err := anthropicAt(srv.URL).Generate(context.Background(), Request{
		System:    "You write SPM questions.",
		Messages:  []Message{{Role: RoleUser, Content: "one question"}},
		Schema:    optionSchema("anthropic-generate"),
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.JSONEq(t, generatedQuestion, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 30, TotalTokens: 80}, resp.Usage)
	assert.Equal(t, StopEnd, resp.StopReason)
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	errBody := map[string]any{"type": "error", "error": map[string]any{"type": "x", "message": "nope"}}

	_, err := anthropicAt(serveJSON(t, http.StatusTooManyRequests, errBody).URL).
		Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}, MaxTokens: 10})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	_, err = anthropicAt(serveJSON(t, http.StatusBadGateway, errBody).URL).
		Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}, MaxTokens: 10})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	_, err = anthropicAt(serveJSON(t, http.StatusUnauthorized, errBody).URL).
		Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}, MaxTokens: 10})
	var rejected *ErrRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusUnauthorized, rejected.Status)
}

func TestStatusErrorIsNotRetriedWhenRejected(t *testing.T) {
	retry, _ := transient(statusError(http.StatusBadRequest, assert.AnError))
	assert.False(t, retry)
	retry, _ = transient(statusError(http.StatusTooManyRequests, assert.AnError))
	assert.True(t, retry)
	retry, _ = transient(statusError(http.StatusServiceUnavailable, assert.AnError))
	assert.True(t, retry)
}

func TestOpenAIProvider_Generate(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, map[string]any{
		"id": "c1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": generatedQuestion},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	})

	resp, err := openaiAt(srv.URL).Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "one question"}},
		Schema:   optionSchema("openai-generate"),
	})
	require.NoError(t, err)
	assert.Equal(t, 65, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)
}

func TestOpenAIProvider_TruncatedOutput(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, map[string]any{
		"id": "c2", "object": "chat.completion", "model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"message":       map[string]any{"role": "assistant", "content": `{"question_text":"Sol`},
			"finish_reason": "length",
		}},
	})
	_, err := openaiAt(srv.URL).Generate(context.Background(), Request{Schema: optionSchema("openai-trunc")})
	var mt *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &mt)
}

func TestNewProviders_RequireKey(t *testing.T) {
	_, err := NewAnthropicProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewOpenAIProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), ProviderConfig{})
	assert.Error(t, err)
}

func TestModelAliases(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5-20251001", resolveModel(ProviderAnthropic, "claude-haiku"))
	assert.Equal(t, "gemini-2.5-flash", resolveModel(ProviderGemini, "gemini-flash"))
	assert.Equal(t, "claude-haiku", resolveModel(ProviderOpenRouter, "claude-haiku"))
	assert.Equal(t, "gpt-4.1", resolveModel(ProviderOpenAI, "gpt-4.1"))
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(optionSchema("gemini").Definition)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"question_text", "options", "correct_index"}, s.Required)
	require.Contains(t, s.Properties, "options")
	assert.Equal(t, genai.TypeArray, s.Properties["options"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["options"].Items.Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["correct_index"].Type)
}

func TestRequestBuilders(t *testing.T) {
	req := Request{
		System:      "sys",
		Messages:    []Message{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "a"}},
		Schema:      optionSchema("builders"),
		MaxTokens:   128,
		Temperature: 0.5,
	}

	ap := anthropicParams("claude-x", req)
	assert.Equal(t, int64(128), ap.MaxTokens)
	require.Len(t, ap.System, 1)
	assert.Equal(t, "sys", ap.System[0].Text)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, ap.Messages[1].Role)

	or, err := openaiRequest("gpt-x", req)
	require.NoError(t, err)
	require.Len(t, or.Messages, 3)
	assert.Equal(t, openai.ChatMessageRoleSystem, or.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, or.Messages[2].Role)
	require.NotNil(t, or.ResponseFormat)
	assert.Equal(t, "builders", or.ResponseFormat.JSONSchema.Name)

	gc := geminiConfig(req)
	assert.Equal(t, int32(128), gc.MaxOutputTokens)
	assert.Equal(t, "application/json", gc.ResponseMIMEType)
	assert.Equal(t, "model", geminiContents(req.Messages)[1].Role)
}

func TestFinish(t *testing.T) {
	_, err := finish(Request{}, json.RawMessage(`{"a"`), StopMaxTokens, Usage{}, "m")
	var mt *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &mt)

	resp, err := finish(Request{}, json.RawMessage(`{}`), StopEnd, Usage{TotalTokens: 3}, "m")
	require.NoError(t, err)
	assert.Equal(t, "m", resp.Model)
	assert.Equal(t, 3, resp.Usage.TotalTokens)
}
