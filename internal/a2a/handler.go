// Package a2a serves the listing analysis as an A2A agent over JSON-RPC 2.0.
package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/BerylCAtieno/listing-expert-agent/internal/agent"
	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/report"
	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	Endpoint  = "/a2a/listing"
	CardPath  = "/.well-known/agent.json"
	usageHint = "Please provide the product name, description and review text, e.g.\n" +
		"product: Ergo Chair\ndescription: adjustable lumbar support\nreviews: seat too narrow"
)

type A2AHandler struct {
	svc       *service.Service
	publicURL string
	logger    *zap.Logger
}

func NewA2AHandler(svc *service.Service, publicURL string, logger *zap.Logger) *A2AHandler {
	return &A2AHandler{
		svc:       svc,
		publicURL: publicURL,
		logger:    logger.Named("a2a"),
	}
}

func (h *A2AHandler) Register(r gin.IRouter) {
	r.GET(CardPath, h.ServeAgentCard)
	r.POST(Endpoint, h.HandleListing)
}

// directMessageID identifies responses to messages sent without a JSON-RPC
// envelope.
var directMessageID = json.RawMessage(`"direct-message"`)

// HandleListing processes A2A messages
func (h *A2AHandler) HandleListing(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warn("failed to read request body", zap.Error(err))
		h.sendErrorResponse(c, nil, "Failed to read request body", CodeParseError)
		return
	}

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(body, &rpcReq); err != nil || rpcReq.Method == "" {
		h.logger.Debug("not a JSON-RPC envelope, trying direct message", zap.Error(err))
		h.handleDirectMessage(c, body)
		return
	}

	h.logger.Debug("rpc request",
		zap.ByteString("id", rpcReq.ID),
		zap.String("method", rpcReq.Method))

	if rpcReq.JSONRPC != "2.0" {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		var params MessageParams
		if err := json.Unmarshal(rpcReq.Params, &params); err != nil || len(params.Message.Parts) == 0 {
			h.sendErrorResponse(c, rpcReq.ID, "params.message must carry at least one part", CodeInvalidParams)
			return
		}
		h.handleTask(c, rpcReq.ID, params)
	default:
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

// handleDirectMessage accepts MessageParams without the JSON-RPC wrapper.
func (h *A2AHandler) handleDirectMessage(c *gin.Context, body []byte) {
	var params MessageParams
	if err := json.Unmarshal(body, &params); err != nil || len(params.Message.Parts) == 0 {
		h.sendErrorResponse(c, nil, "Invalid request format", CodeParseError)
		return
	}
	h.handleTask(c, directMessageID, params)
}

func (h *A2AHandler) handleTask(c *gin.Context, id json.RawMessage, params MessageParams) {
	msg := params.Message
	taskID := msg.TaskID
	if taskID == "" {
		taskID = uuid.New().String()
	}

	result := h.runTask(c.Request.Context(), taskID, msg)
	if n := params.Configuration.HistoryLength; n > 0 {
		result.History = lastMessages(n, msg, *result.Status.Message)
	}
	h.sendSuccessResponse(c, id, result)
}

func (h *A2AHandler) runTask(ctx context.Context, taskID string, msg A2AMessage) TaskResult {
	form, ok := extractForm(msg)
	if !ok {
		return h.createTaskResult(taskID, msg.ContextID, StateInputRequired, usageHint)
	}

	res, err := h.svc.Submit(ctx, form)
	if err != nil {
		kind := apperrors.TypeOf(err)
		h.logger.Warn("analysis failed",
			zap.String("task_id", taskID),
			zap.String("type", string(kind)),
			zap.Error(err))

		if kind == apperrors.ErrorTypeValidation {
			text := fmt.Sprintf("%s\n\n%s", apperrors.UserMessage(err), usageHint)
			return h.createTaskResult(taskID, msg.ContextID, StateInputRequired, text)
		}
		result := h.createTaskResult(taskID, msg.ContextID, StateFailed, apperrors.UserMessage(err))
		result.Status.Message.Parts = append(result.Status.Message.Parts, DataPart(map[string]string{"type": string(kind)}))
		return result
	}

	h.logger.Info("analysis completed", zap.String("task_id", taskID), zap.String("product", res.Input.ProductName))
	return h.createSuccessTaskResult(taskID, msg.ContextID, res)
}

// lastMessages keeps at most n of msgs, dropping the oldest first.
func lastMessages(n int, msgs ...A2AMessage) []A2AMessage {
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs
}

// ServeAgentCard serves the agent card using Gin
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	card, err := agent.LoadCard(h.publicURL, Endpoint)
	if err != nil {
		h.logger.Error("agent card unavailable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Agent card not available"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *A2AHandler) createSuccessTaskResult(taskID, contextID string, res *service.Result) TaskResult {
	markdown := report.Markdown(res.Input.ProductName, res.Results)
	listings := res.Results.Listings

	result := h.createTaskResult(taskID, contextID, StateCompleted, markdown)
	result.Artifacts = []Artifact{
		{
			ArtifactID: uuid.New().String(),
			Name:       "Listing Report",
			Parts:      []MessagePart{TextPart(markdown)},
		},
		{
			ArtifactID: uuid.New().String(),
			Name:       "Analysis Results",
			Parts:      []MessagePart{DataPart(res.Results)},
		},
		{
			ArtifactID: uuid.New().String(),
			Name:       "Listing Copy",
			Parts: []MessagePart{
				TextPart(report.PlainText(listings.Version1)),
				TextPart(report.PlainText(listings.Version2)),
			},
		},
	}
	return result
}

func (h *A2AHandler) createTaskResult(taskID, contextID, state, text string) TaskResult {
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     state,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(text)},
			},
		},
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id json.RawMessage, result TaskResult) {
	h.logger.Debug("sending task result", zap.ByteString("id", id), zap.String("state", result.Status.State))
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  &result,
	})
}

// sendErrorResponse writes a JSON-RPC error. These are sent with 200 OK.
func (h *A2AHandler) sendErrorResponse(c *gin.Context, id json.RawMessage, message string, code int) {
	h.logger.Debug("sending rpc error", zap.Int("code", code), zap.String("message", message))
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	})
}
