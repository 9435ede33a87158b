package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BerylCAtieno/listing-expert-agent/internal/agent"
	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/collector"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAnalyzer struct {
	err   error
	input *models.ListingInputData
}

func (s *stubAnalyzer) AnalyzeAndGenerate(_ context.Context, input *models.ListingInputData) (*models.AnalysisResults, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &models.AnalysisResults{
		KeywordAnalysis: models.KeywordAnalysis{Roots: []string{"chair"}},
		Listings: models.Listings{
			Version1: models.AmazonListing{Title: "T1", Bullets: []string{"b1"}, Description: "d1"},
			Version2: models.AmazonListing{Title: "T2", Bullets: []string{"b2"}, Description: "d2"},
		},
	}, nil
}

func newRouter(a service.Analyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(collector.New(nil, 0, zap.NewNop()), a, 1, zap.NewNop())
	r := gin.New()
	NewA2AHandler(svc, "https://agents.example.com", zap.NewNop()).Register(r)
	return r
}

func call(t *testing.T, r http.Handler, body any) JSONRPCResponse {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, Endpoint, bytes.NewReader(b)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func rpc(method string, parts ...MessagePart) JSONRPCRequest {
	return rpcWith(method, MessageParams{Message: A2AMessage{
		Kind:  "message",
		Role:  RoleUser,
		Parts: parts,
	}})
}

func rpcWith(method string, params MessageParams) JSONRPCRequest {
	raw, _ := json.Marshal(params)
	return JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`"req-1"`),
		Method:  method,
		Params:  raw,
	}
}

func TestHandleListingTextMessage(t *testing.T) {
	a := &stubAnalyzer{}
	r := newRouter(a)

	resp := call(t, r, rpc("message/send", TextPart(
		"<p>product: Ergo Chair</p><p>description: adjustable lumbar support</p>"+
			"<p>reviews: seat too narrow</p><p>armrests wobble</p>"+
			"<p>competitor2: https://example.com/b</p>")))

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.JSONEq(t, `"req-1"`, string(resp.ID))
	assert.Equal(t, StateCompleted, resp.Result.Status.State)
	require.Len(t, resp.Result.Artifacts, 3)
	assert.Contains(t, resp.Result.Artifacts[0].Parts[0].Text, "### T1")
	assert.Equal(t, PartData, resp.Result.Artifacts[1].Parts[0].Kind)
	assert.Equal(t, "T2\n\nb2\n\nd2", resp.Result.Artifacts[2].Parts[1].Text)

	require.NotNil(t, a.input)
	assert.Equal(t, "Ergo Chair", a.input.ProductName)
	assert.Equal(t, "seat too narrow\narmrests wobble", a.input.ReviewFileContent)
	assert.Equal(t, "https://example.com/b", a.input.Competitors[1].URL)
}

func TestHandleListingDataPart(t *testing.T) {
	a := &stubAnalyzer{}
	r := newRouter(a)

	resp := call(t, r, rpc("agent/task", DataPart(models.ListingInputData{
		ProductName:       "Ergo Chair",
		ProductDesc:       "adjustable lumbar support",
		ReviewFileContent: "seat too narrow",
		ABAFileContent:    "ergonomic chair,12000",
	})))

	require.NotNil(t, resp.Result)
	assert.Equal(t, StateCompleted, resp.Result.Status.State)
	assert.Equal(t, "ergonomic chair,12000", a.input.ABAFileContent)
}

func TestHandleListingInputRequired(t *testing.T) {
	r := newRouter(&stubAnalyzer{})

	resp := call(t, r, rpc("message/send", TextPart("hello there")))
	require.NotNil(t, resp.Result)
	assert.Equal(t, StateInputRequired, resp.Result.Status.State)

	resp = call(t, r, rpc("message/send", TextPart("product: Ergo Chair")))
	require.NotNil(t, resp.Result)
	assert.Equal(t, StateInputRequired, resp.Result.Status.State)
	assert.Contains(t, resp.Result.Status.Message.Parts[0].Text, "required fields")
}

func TestHandleListingFailedTask(t *testing.T) {
	r := newRouter(&stubAnalyzer{err: apperrors.NewProviderError("stub", assert.AnError)})

	resp := call(t, r, rpc("message/send", TextPart("product: Ergo Chair\ndesc: lumbar\nreview: narrow")))
	require.NotNil(t, resp.Result)
	assert.Equal(t, StateFailed, resp.Result.Status.State)

	parts := resp.Result.Status.Message.Parts
	require.Len(t, parts, 2)
	assert.Equal(t, apperrors.UserMessage(assert.AnError), parts[0].Text)
	assert.Equal(t, map[string]any{"type": "PROVIDER_ERROR"}, parts[1].Data)
}

func TestHandleListingRPCErrors(t *testing.T) {
	r := newRouter(&stubAnalyzer{})

	req := rpc("tasks/cancel")
	resp := call(t, r, req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)

	req = rpc("message/send", TextPart("product: x"))
	req.JSONRPC = "1.0"
	resp = call(t, r, req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)

	req = rpc("message/send")
	resp = call(t, r, req)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
	assert.JSONEq(t, `"req-1"`, string(resp.ID))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, Endpoint, bytes.NewReader([]byte("not json"))))
	var raw JSONRPCResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.NotNil(t, raw.Error)
	assert.Equal(t, CodeParseError, raw.Error.Code)
}

func TestHandleListingNumericID(t *testing.T) {
	r := newRouter(&stubAnalyzer{})

	body := `{"jsonrpc":"2.0","id":7,"method":"message/send","params":{"message":{"role":"user",` +
		`"parts":[{"kind":"text","text":"product: Ergo Chair\ndesc: lumbar\nreview: narrow"}]}}}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, Endpoint, bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusOK, w.Code)

	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.JSONEq(t, `7`, string(resp.ID))
	require.NotNil(t, resp.Result)
	assert.Equal(t, StateCompleted, resp.Result.Status.State)

	req := rpc("tasks/cancel")
	req.ID = json.RawMessage(`42`)
	resp = call(t, r, req)
	require.NotNil(t, resp.Error)
	assert.JSONEq(t, `42`, string(resp.ID))
}

func TestHandleListingHistoryLength(t *testing.T) {
	r := newRouter(&stubAnalyzer{})
	params := MessageParams{
		Message: A2AMessage{
			Kind:  "message",
			Role:  RoleUser,
			Parts: []MessagePart{TextPart("hello")},
		},
	}

	resp := call(t, r, rpcWith("message/send", params))
	require.NotNil(t, resp.Result)
	assert.Empty(t, resp.Result.History)

	params.Configuration.HistoryLength = 2
	resp = call(t, r, rpcWith("message/send", params))
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.History, 2)
	assert.Equal(t, RoleUser, resp.Result.History[0].Role)
	assert.Equal(t, RoleAgent, resp.Result.History[1].Role)

	params.Configuration.HistoryLength = 1
	resp = call(t, r, rpcWith("message/send", params))
	require.Len(t, resp.Result.History, 1)
	assert.Equal(t, RoleAgent, resp.Result.History[0].Role)
}

func TestHandleListingConversationHistory(t *testing.T) {
	a := &stubAnalyzer{}
	r := newRouter(a)

	history := []MessagePart{
		TextPart("<p>product: Old Stool</p><p>desc: wobbly</p><p>review: creaks</p>"),
		TextPart("product: Ergo Chair\ndesc: lumbar\nreview: seat too narrow"),
		TextPart("Generating listing..."),
	}
	resp := call(t, r, rpc("message/send", TextPart("go ahead"), DataPart(history)))

	require.NotNil(t, resp.Result)
	assert.Equal(t, StateCompleted, resp.Result.Status.State)
	require.NotNil(t, a.input)
	assert.Equal(t, "Ergo Chair", a.input.ProductName)
	assert.Equal(t, "seat too narrow", a.input.ReviewFileContent)
}

func TestHandleDirectMessage(t *testing.T) {
	a := &stubAnalyzer{}
	r := newRouter(a)

	resp := call(t, r, MessageParams{Message: A2AMessage{
		Role:  RoleUser,
		Parts: []MessagePart{TextPart("name: Ergo Chair\ndescription: lumbar\nreviews: narrow")},
	}})
	assert.JSONEq(t, `"direct-message"`, string(resp.ID))
	require.NotNil(t, resp.Result)
	assert.Equal(t, StateCompleted, resp.Result.Status.State)
}

func TestServeAgentCard(t *testing.T) {
	r := newRouter(&stubAnalyzer{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, CardPath, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var card agent.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "https://agents.example.com/a2a/listing", card.URL)
}

func TestFormFromText(t *testing.T) {
	form, ok := formFromText("品名：人体工学椅\n描述: lumbar\ncompetitor: mesh back\ncompetitor: stable base\nkeywords: chair,100")
	require.True(t, ok)
	assert.Equal(t, "人体工学椅", form.ProductName)
	assert.Equal(t, "lumbar", form.ProductDesc)
	assert.Equal(t, "chair,100", form.ABA.Text)
	require.Len(t, form.Competitors, 2)
	assert.Equal(t, "stable base", form.Competitors[1].Bullets)

	_, ok = formFromText("just chatting: nothing to see")
	assert.False(t, ok)
}

func TestFormFromTextKeepsEveryReview(t *testing.T) {
	form, ok := formFromText("product: Ergo Chair\n" +
		"description: adjustable lumbar support\n" +
		"review: seat too narrow\n" +
		"review: armrest wobbles\n" +
		"Name: Alice\n" +
		"review: great lumbar\n" +
		"aba: ergonomic chair,120\n" +
		"aba: office chair,80")
	require.True(t, ok)

	assert.Equal(t, "Ergo Chair", form.ProductName)
	assert.Equal(t, "adjustable lumbar support", form.ProductDesc)
	assert.Equal(t, "seat too narrow\narmrest wobbles\nName: Alice\ngreat lumbar", form.Review.Text)
	assert.Equal(t, "ergonomic chair,120\noffice chair,80", form.ABA.Text)
}
