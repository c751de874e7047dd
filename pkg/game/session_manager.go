package game

import (
	"fmt"
	"log"

	"github.com/gonewx/configurator/pkg/types"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Session 上次使用时的档位和视角
// 与用户无关，整个应用共享一份
type Session struct {
	Tier      string  `yaml:"tier"`      // 上次应用的档位标识，空表示未选择
	HasOrbit  bool    `yaml:"hasOrbit"`  // 是否记录了轨道视角
	Radius    float64 `yaml:"radius"`    // 轨道半径
	Azimuth   float64 `yaml:"azimuth"`   // 水平角（弧度）
	Elevation float64 `yaml:"elevation"` // 仰角（弧度）
}

// SessionManager 会话管理器
// 负责会话的加载、保存和内存管理
type SessionManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	session      *Session
}

// 存储路径常量
const (
	sessionObject   = "session"
	sessionProperty = "last"
)

// NewSessionManager 创建新的会话管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存会话）
//
// 加载失败不是致命错误，记录日志后使用空会话。
func NewSessionManager(gdataManager *gdata.Manager) *SessionManager {
	sm := &SessionManager{
		gdataManager: gdataManager,
		session:      &Session{},
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SessionManager] Warning: Failed to load session: %v (starting fresh)", err)
	}

	return sm
}

// OpenSessionStorage 打开 gdata 存储
//
// 打开失败时返回 nil 和错误，调用方可以继续以降级模式运行。
func OpenSessionStorage(appName string) (*gdata.Manager, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage %q: %w", appName, err)
	}
	return manager, nil
}

// Load 从 gdata 加载会话
//
// 返回：
//   - error: 如果读取或反序列化失败返回错误
func (sm *SessionManager) Load() error {
	if sm.gdataManager == nil {
		sm.session = &Session{}
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(sessionObject, sessionProperty) {
		sm.session = &Session{}
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		sm.session = &Session{}
		return fmt.Errorf("failed to load session: %w", err)
	}

	var loaded Session
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.session = &Session{}
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// 过时的档位标识直接丢弃
	if loaded.Tier != "" {
		if _, err := types.ParseTier(loaded.Tier); err != nil {
			log.Printf("[SessionManager] Discarding stored tier: %v", err)
			loaded.Tier = ""
		}
	}

	sm.session = &loaded
	log.Printf("[SessionManager] Session loaded (tier=%q)", loaded.Tier)
	return nil
}

// Save 保存会话到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SessionManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	log.Printf("[SessionManager] Session saved")
	return nil
}

// GetSession 获取当前会话
func (sm *SessionManager) GetSession() *Session {
	return sm.session
}

// LastTier 返回上次应用的档位
func (sm *SessionManager) LastTier() (types.Tier, bool) {
	if sm.session.Tier == "" {
		return 0, false
	}
	tier, err := types.ParseTier(sm.session.Tier)
	if err != nil {
		return 0, false
	}
	return tier, true
}

// SetTier 记录当前档位
// 注意：仅修改内存中的会话，需调用 Save() 方法持久化
func (sm *SessionManager) SetTier(tier types.Tier) {
	sm.session.Tier = tier.ID()
}

// SetOrbit 记录轨道视角
// 注意：仅修改内存中的会话，需调用 Save() 方法持久化
func (sm *SessionManager) SetOrbit(radius, azimuth, elevation float64) {
	sm.session.HasOrbit = true
	sm.session.Radius = radius
	sm.session.Azimuth = azimuth
	sm.session.Elevation = elevation
}
