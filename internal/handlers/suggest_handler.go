package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"echobox/internal/services"
)

type SuggestHandler struct {
	suggestions services.SuggestionService
}

func NewSuggestHandler(suggestions services.SuggestionService) *SuggestHandler {
	return &SuggestHandler{suggestions: suggestions}
}

// SuggestMessages streams the model output verbatim; splitting on '||' is
// the client's job.
func (h *SuggestHandler) SuggestMessages(c *gin.Context) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")

	wrote := false
	err := h.suggestions.StreamSuggestions(c.Request.Context(), func(chunk string) error {
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		c.Writer.Flush()
		wrote = true
		return nil
	})
	if err != nil {
		if wrote {
			// headers are gone; just drop the stream
			log.Printf("[suggest][stream] aborted mid-stream: %v", err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
	}
}

// SuggestMessagesJSON is the non-streaming variant with the parsed triple
// and the built-in fallback.
func (h *SuggestHandler) SuggestMessagesJSON(c *gin.Context) {
	suggestions := h.suggestions.Suggestions(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "suggestions": suggestions})
}
