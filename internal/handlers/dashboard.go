package handlers

import (
	"time"

	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDashboard summarizes the user's activity: booking counts, recent
// bookings and voice commands, and a sample of available routes.
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var totalBookings, activeBookings, voiceCommands, routesAvailable int64
		db.Model(&models.Booking{}).Where("user_id = ?", userId).Count(&totalBookings)
		db.Model(&models.Booking{}).Where("user_id = ? AND status = ?", userId, models.BookingStatusConfirmed).Count(&activeBookings)
		db.Model(&models.VoiceCommand{}).Where("user_id = ?", userId).Count(&voiceCommands)
		db.Model(&models.Route{}).Count(&routesAvailable)

		var recentBookings []models.Booking
		db.Where("user_id = ?", userId).
			Preload("Schedule").
			Preload("Schedule.Route").
			Order("booking_time DESC").
			Limit(5).
			Find(&recentBookings)

		var recentCommands []models.VoiceCommand
		db.Where("user_id = ?", userId).
			Order("created_at DESC").
			Limit(5).
			Find(&recentCommands)

		var availableRoutes []models.Route
		db.Limit(6).Find(&availableRoutes)

		c.JSON(200, gin.H{
			"stats": gin.H{
				"totalBookings":   totalBookings,
				"activeBookings":  activeBookings,
				"voiceCommands":   voiceCommands,
				"routesAvailable": routesAvailable,
			},
			"recentBookings":  recentBookings,
			"recentCommands":  recentCommands,
			"availableRoutes": availableRoutes,
		})
	}
}

// GetDashboardStats returns per-day booking counts for the last seven days
// plus voice command totals.
func GetDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		type dailyCount struct {
			Date  string `json:"date"`
			Count int64  `json:"count"`
		}

		sevenDaysAgo := time.Now().AddDate(0, 0, -7)
		dailyBookings := make([]dailyCount, 0, 7)
		for i := 0; i < 7; i++ {
			day := sevenDaysAgo.AddDate(0, 0, i)
			dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
			dayEnd := dayStart.Add(24 * time.Hour)

			var count int64
			db.Model(&models.Booking{}).
				Where("user_id = ? AND booking_time >= ? AND booking_time < ?", userId, dayStart, dayEnd).
				Count(&count)

			dailyBookings = append(dailyBookings, dailyCount{
				Date:  day.Format("2006-01-02"),
				Count: count,
			})
		}

		now := time.Now()
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		var totalCommands, todayCommands int64
		db.Model(&models.VoiceCommand{}).Where("user_id = ?", userId).Count(&totalCommands)
		db.Model(&models.VoiceCommand{}).
			Where("user_id = ? AND created_at >= ?", userId, todayStart).
			Count(&todayCommands)

		c.JSON(200, gin.H{
			"daily_bookings": dailyBookings,
			"voice_stats": gin.H{
				"total": totalCommands,
				"today": todayCommands,
			},
		})
	}
}
