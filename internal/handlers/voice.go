package handlers

import (
	"time"

	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/chachabrian/transitly-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListenCommand captures one spoken command through the speech service,
// answers it and logs it. Recognition failures come back as an error
// payload and are not logged.
func ListenCommand(assistant *services.Assistant) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		start := time.Now()
		command, err := assistant.Speech().Recognize(c.Request.Context())
		processingTime := time.Since(start).Seconds()

		if err != nil {
			c.JSON(200, gin.H{
				"success":         false,
				"error":           err.Error(),
				"processing_time": processingTime,
			})
			return
		}

		response, err := assistant.Process(c.Request.Context(), &userId, command, processingTime)
		if err != nil {
			c.JSON(200, gin.H{"success": false, "error": "Failed to process command"})
			return
		}

		c.JSON(200, gin.H{
			"success":         true,
			"command":         command,
			"response":        response,
			"processing_time": processingTime,
		})
	}
}

// ProcessCommand answers a typed command, for clients without microphone
// access. Same rules, same logging as the spoken path.
func ProcessCommand(assistant *services.Assistant) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Command string `json:"command" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		start := time.Now()
		response, err := assistant.Process(c.Request.Context(), &userId, input.Command, 0)
		processingTime := time.Since(start).Seconds()
		if err != nil {
			c.JSON(200, gin.H{"success": false, "error": "Failed to process command"})
			return
		}

		c.JSON(200, gin.H{
			"success":         true,
			"command":         input.Command,
			"response":        response,
			"processing_time": processingTime,
		})
	}
}

// SpeakText queues text for background synthesis and playback. The response
// is immediate; playback outcome is unobservable by design.
func SpeakText(assistant *services.Assistant) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || input.Text == "" {
			c.JSON(200, gin.H{"success": false, "error": "No text provided"})
			return
		}

		assistant.Speak(input.Text)
		c.JSON(200, gin.H{"success": true, "message": "Speaking..."})
	}
}

// GetCommandHistory returns the user's last 50 voice commands, newest first
func GetCommandHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var commands []models.VoiceCommand
		if err := db.Where("user_id = ?", userId).
			Order("created_at DESC").
			Limit(50).
			Find(&commands).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch command history"})
			return
		}

		c.JSON(200, commands)
	}
}
