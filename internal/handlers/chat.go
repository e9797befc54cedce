package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"doc-chat/internal/logger"
	"doc-chat/internal/models"
	"doc-chat/internal/services"
)

// SessionHeader carries the caller-supplied session identifier.
const SessionHeader = "X-Session-ID"

// ChatHandler wires the document chat endpoints: upload-and-summarize,
// follow-up questions and health.
type ChatHandler struct {
	processor *services.DocumentProcessor
	sessions  *services.SessionStore
	openai    *services.OpenAIService
	streaming bool
}

func NewChatHandler(processor *services.DocumentProcessor, sessions *services.SessionStore, openaiService *services.OpenAIService, responseMode string) *ChatHandler {
	return &ChatHandler{
		processor: processor,
		sessions:  sessions,
		openai:    openaiService,
		streaming: responseMode != "buffered",
	}
}

func (h *ChatHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/summarize", h.Summarize)
	router.POST("/ask", h.Ask)
	router.GET("/health", h.Health)
}

func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

func sessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	return services.DefaultSessionID
}

// Summarize accepts a multipart upload, extracts its text, stores it
// for the caller's session and relays a summary from the completion
// provider.
func (h *ChatHandler) Summarize(c *gin.Context) {
	session := sessionID(c)
	log := logger.WithFields(logrus.Fields{
		"requestId": uuid.NewString(),
		"sessionId": session,
		"endpoint":  "/summarize",
	})

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("No file uploaded")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file uploaded"})
		return
	}
	if strings.TrimSpace(fileHeader.Filename) == "" {
		log.Warn("Empty filename")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid filename"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.WithError(err).Warn("Failed to open uploaded file")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	content, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		log.WithError(err).Warn("Failed to read uploaded file")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}

	text, err := h.processor.Process(fileHeader.Filename, content)
	if err != nil {
		h.renderError(c, log, err)
		return
	}

	h.sessions.Put(session, text)
	log.WithFields(logrus.Fields{
		"file":  fileHeader.Filename,
		"chars": len(text),
	}).Info("Document stored for session")

	h.relay(c, log, h.openai.SummarizeMessages(text), "Error generating summary: ", func(answer string) interface{} {
		return models.SummarizeResponse{Summary: answer}
	})
}

// Ask answers a follow-up question grounded in the document stored for
// the caller's session, or in an inline context when one is supplied.
func (h *ChatHandler) Ask(c *gin.Context) {
	session := sessionID(c)
	log := logger.WithFields(logrus.Fields{
		"requestId": uuid.NewString(),
		"sessionId": session,
		"endpoint":  "/ask",
	})

	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.WithError(err).Warn("Invalid request body")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing request data"})
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		log.Warn("Empty query received")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Query cannot be empty"})
		return
	}

	documentText := strings.TrimSpace(req.Context)
	if documentText == "" {
		stored, ok := h.sessions.Get(session)
		if !ok {
			h.renderError(c, log, services.ErrNoDocument)
			return
		}
		documentText = stored
	}

	log.WithFields(logrus.Fields{
		"documentChars": len(documentText),
		"historyTurns":  len(req.History),
	}).Info("Answering follow-up question")

	h.relay(c, log, h.openai.AskMessages(documentText, query, req.History), "Error answering question: ", func(answer string) interface{} {
		return models.AskResponse{Answer: answer}
	})
}

func (h *ChatHandler) relay(c *gin.Context, log *logrus.Entry, messages []openai.ChatCompletionMessage, errPrefix string, wrap func(string) interface{}) {
	if h.streaming {
		h.relayStream(c, log, messages, errPrefix)
		return
	}

	answer, err := h.openai.Complete(c.Request.Context(), messages)
	if err != nil {
		h.renderError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, wrap(answer))
}

func (h *ChatHandler) relayStream(c *gin.Context, log *logrus.Entry, messages []openai.ChatCompletionMessage, errPrefix string) {
	events, err := h.openai.StreamCompletion(c.Request.Context(), messages)
	if err != nil {
		h.renderError(c, log, err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		if event.Err != nil {
			// Fragments may already be on the wire, so the failure is
			// encoded in-band as a final text fragment.
			log.WithError(event.Err).Error("Completion stream failed")
			io.WriteString(w, errPrefix+event.Err.Error())
			return false
		}
		io.WriteString(w, event.Content)
		return true
	})
}

func (h *ChatHandler) renderError(c *gin.Context, log *logrus.Entry, err error) {
	status := http.StatusInternalServerError
	var unsupported *services.UnsupportedTypeError
	var extraction *services.ExtractionError
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrEmptyExtraction),
		errors.Is(err, services.ErrNoDocument),
		errors.As(err, &unsupported),
		errors.As(err, &extraction):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Warn("Request rejected")
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}
