package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/char5742/swipe-detector/internal/config"
	"github.com/char5742/swipe-detector/internal/features"
)

// ルートの設定
func (s *Server) setupRoutes(router *http.ServeMux) {
	// 設定関連のエンドポイント
	router.HandleFunc("GET /api/config", s.handleGetConfig)
	router.HandleFunc("PUT /api/config", s.handleUpdateConfig)
	router.HandleFunc("POST /api/config/save", s.handleSaveConfig)

	// デバイス関連のエンドポイント
	router.HandleFunc("GET /api/devices", s.handleGetDevices)
	router.HandleFunc("PUT /api/devices/preferred", s.handleSetPreferredDevice)

	// サービス関連のエンドポイント
	router.HandleFunc("POST /api/service/start", s.handleStartService)
	router.HandleFunc("POST /api/service/stop", s.handleStopService)
	router.HandleFunc("GET /api/service/status", s.handleServiceStatus)

	// 認識結果
	router.HandleFunc("GET /api/gestures", s.handleRecentGestures)

	// ヘルスチェック用エンドポイント
	router.HandleFunc("GET /api/health", s.handleHealthCheck)
}

// cloneConfig は設定を JSON 経由で複製する
func cloneConfig(cfg *config.Config) (*config.Config, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var out config.Config
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// 設定取得ハンドラ
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.GetConfig())
}

// 設定更新ハンドラ
// 省略されたフィールドは現在の値のまま
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	newConfig, err := cloneConfig(s.GetConfig())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "設定の複製に失敗しました")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(newConfig); err != nil {
		writeError(w, http.StatusBadRequest, "設定の解析に失敗しました")
		return
	}
	if err := newConfig.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.UpdateConfig(newConfig)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// 設定保存ハンドラ
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var saveRequest struct {
		Path string `json:"path"`
	}

	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&saveRequest); err != nil {
			writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
			return
		}
	}

	configPath := saveRequest.Path
	if configPath == "" {
		configPath = s.configPath
	}
	if configPath == "" {
		// デフォルトパスを使用
		userConfigDir, err := config.GetDefaultConfigDir()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "デフォルト設定ディレクトリの取得に失敗しました")
			return
		}
		configPath = filepath.Join(userConfigDir, "config.toml")
	}

	if err := config.SaveConfig(configPath, s.GetConfig()); err != nil {
		writeError(w, http.StatusInternalServerError, "設定の保存に失敗しました: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"path":   configPath,
	})
}

// デバイス一覧取得ハンドラ
func (s *Server) handleGetDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "デバイス一覧の取得に失敗しました: "+err.Error())
		return
	}
	if devices == nil {
		devices = []features.Device{}
	}

	writeJSON(w, http.StatusOK, devices)
}

// 優先デバイス設定ハンドラ
func (s *Server) handleSetPreferredDevice(w http.ResponseWriter, r *http.Request) {
	var request struct {
		TouchDevice string `json:"touch_device"`
		Grab        *bool  `json:"grab"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	cfg, err := cloneConfig(s.GetConfig())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "設定の複製に失敗しました")
		return
	}
	cfg.DevicePrefs.PreferredTouchDevice = request.TouchDevice
	if request.Grab != nil {
		cfg.DevicePrefs.Grab = *request.Grab
	}
	s.UpdateConfig(cfg)

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// サービス起動ハンドラ
func (s *Server) handleStartService(w http.ResponseWriter, r *http.Request) {
	err := s.service.Start()
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_running"})
	case errors.Is(err, features.ErrNoDevice):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("サービスの起動に失敗しました: %v", err))
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
	}
}

// サービス停止ハンドラ
func (s *Server) handleStopService(w http.ResponseWriter, r *http.Request) {
	err := s.service.Stop()
	switch {
	case errors.Is(err, ErrNotRunning):
		writeJSON(w, http.StatusOK, map[string]string{"status": "not_running"})
	case err != nil:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("サービスの停止に失敗しました: %v", err))
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
	}
}

// サービス状態取得ハンドラ
func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	status := s.service.Status()
	state := "stopped"
	if status.Running {
		state = "running"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  state,
		"details": status,
	})
}

// 最近のジェスチャー取得ハンドラ
func (s *Server) handleRecentGestures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.RecentGestures())
}

// ヘルスチェックハンドラ
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
