package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/char5742/swipe-detector/internal/config"
	"github.com/char5742/swipe-detector/internal/features"
)

// Server はAPIサーバーを表す構造体
type Server struct {
	server     *http.Server
	cfg        *config.Config
	configPath string
	mutex      sync.RWMutex
	port       int
	service    *GestureService
	monitor    *features.DeviceMonitor
}

// NewServer は新しいAPIサーバーを作成する
// configPath は設定の保存先の既定値で、空ならデフォルトの設定ディレクトリを使う
func NewServer(cfg *config.Config, port int, configPath string) *Server {
	return &Server{
		cfg:        cfg,
		configPath: configPath,
		port:       port,
		service:    NewGestureService(cfg),
	}
}

// Service はジェスチャー認識サービスを返す
func (s *Server) Service() *GestureService {
	return s.service
}

// SetDeviceMonitor はデバイス一覧の取得にモニターのキャッシュを使うようにする
func (s *Server) SetDeviceMonitor(dm *features.DeviceMonitor) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.monitor = dm
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()
	s.setupRoutes(router)
	return router
}

// Start はAPIサーバーを開始する
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	log.Printf("APIサーバーを開始します: http://localhost:%d", s.port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop はAPIサーバーとジェスチャー認識サービスを停止する
func (s *Server) Stop(ctx context.Context) error {
	if s.service.IsRunning() {
		if err := s.service.Stop(); err != nil {
			log.Printf("サービスの停止に失敗しました: %v", err)
		}
	}
	if s.server != nil {
		log.Println("APIサーバーを停止します...")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// GetConfig は現在の設定を返す
func (s *Server) GetConfig() *config.Config {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.cfg
}

// UpdateConfig は設定を更新し、サービスにも反映する
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mutex.Lock()
	s.cfg = cfg
	s.mutex.Unlock()
	s.service.UpdateConfig(cfg)
}

func (s *Server) devices() ([]features.Device, error) {
	s.mutex.RLock()
	monitor := s.monitor
	s.mutex.RUnlock()
	if monitor != nil {
		return monitor.GetConnectedDevices(), nil
	}
	return s.service.scan()
}

// writeJSON はJSONレスポンスを書き込む
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("JSONエンコードエラー: %v", err)
		}
	}
}

// writeError はエラーレスポンスを書き込む
func writeError(w http.ResponseWriter, status int, message string) {
	response := map[string]string{"error": message}
	writeJSON(w, status, response)
}
