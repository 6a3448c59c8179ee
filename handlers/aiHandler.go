package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Nitteswaran/Routely/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

var aiClient = &http.Client{Timeout: 30 * time.Second}

const travelAssistantPrompt = "You are a helpful travel safety assistant for Malaysia. " +
	"Answer questions about route safety, air quality, weather precautions and " +
	"local conditions concisely. If asked about emergencies, always recommend " +
	"contacting local emergency services (999 in Malaysia) first.\n\nUser: %s"

// ChatWithAI proxies a single chat turn to the Gemini API. No conversation
// state is kept server-side.
func ChatWithAI(c *gin.Context) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not configured"})
		return
	}

	var input struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: fmt.Sprintf(travelAssistantPrompt, input.Message)}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build AI request"})
		return
	}

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent?key=%s",
		apiKey,
	)
	resp, err := aiClient.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		utils.Logger.Error("ai_request_failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI assistant is unavailable"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI assistant is unavailable"})
		return
	}

	var aiResp geminiResponse
	if err := json.Unmarshal(body, &aiResp); err != nil || len(aiResp.Candidates) == 0 ||
		len(aiResp.Candidates[0].Content.Parts) == 0 {
		utils.Logger.Warn("ai_response_unparseable", zap.Int("status", resp.StatusCode))
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI assistant returned an unexpected response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply": aiResp.Candidates[0].Content.Parts[0].Text,
	})
}
