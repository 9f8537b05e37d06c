package main

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"gopos/models"

	"github.com/gin-gonic/gin"
)

// Auth policy flags stored in the settings table.
const (
	settingSingleDeviceLogin    = "single_device_login"
	settingTokenRotationEnabled = "token_rotation_enabled"
)

// settingsCacheTTL bounds flag staleness in seconds, not requests: a changed
// flag takes effect on login/refresh within this window without a table read
// per call.
const settingsCacheTTL = 5 * time.Second

var settingsCache = struct {
	sync.Mutex
	values    map[string]string
	fetchedAt time.Time
}{values: map[string]string{}}

func getSetting(key string) (string, bool) {
	settingsCache.Lock()
	defer settingsCache.Unlock()
	if time.Since(settingsCache.fetchedAt) > settingsCacheTTL {
		var rows []models.Setting
		if err := db.Find(&rows).Error; err != nil {
			// keep serving the stale snapshot rather than failing auth
			logger.Warn("settings reload failed", "error", err)
		} else {
			fresh := make(map[string]string, len(rows))
			for _, s := range rows {
				fresh[s.Key] = s.Value
			}
			settingsCache.values = fresh
			settingsCache.fetchedAt = time.Now()
		}
	}
	v, ok := settingsCache.values[key]
	return v, ok
}

func getSettingBool(key string, def bool) bool {
	v, ok := getSetting(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func invalidateSettingsCache() {
	settingsCache.Lock()
	settingsCache.fetchedAt = time.Time{}
	settingsCache.Unlock()
}

// listSettingsHandler returns every settings row.
func listSettingsHandler(c *gin.Context) {
	var rows []models.Setting
	if err := db.Order("key").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// updateSettingHandler upserts one key and drops the cache snapshot.
func updateSettingHandler(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	var s models.Setting
	err := db.Where("key = ?", req.Key).First(&s).Error
	if err == nil {
		err = db.Model(&s).Update("value", req.Value).Error
	} else {
		err = db.Create(&models.Setting{Key: req.Key, Value: req.Value}).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	invalidateSettingsCache()
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
