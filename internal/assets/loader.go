package assets

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// ErrAssetLoadFailed 模型加载失败（读取或解析错误）
var ErrAssetLoadFailed = errors.New("asset load failed")

// ReadFunc 读取资源内容的函数，通常是 embedded.ReadFile
type ReadFunc func(path string) ([]byte, error)

// Loader 异步加载模型描述
//
// 每次 Load 都在独立的 goroutine 中完成；同一路径的并发加载通过
// singleflight 合并为一次读取。Loader 本身可以被多个 goroutine 共享。
type Loader struct {
	read  ReadFunc
	group singleflight.Group
}

// NewLoader 创建加载器
func NewLoader(read ReadFunc) *Loader {
	return &Loader{read: read}
}

// Future 一次异步加载的结果
//
// Ready 返回 true 后 Result 的返回值不再变化。
type Future struct {
	done  chan struct{}
	asset *Asset
	err   error
}

// Ready 非阻塞地检查加载是否完成
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result 返回加载结果，未完成时返回 (nil, nil)
func (f *Future) Result() (*Asset, error) {
	if !f.Ready() {
		return nil, nil
	}
	return f.asset, f.err
}

// Load 开始异步加载 path 指向的模型描述
//
// 失败时 Future 的错误包装 ErrAssetLoadFailed。
func (l *Loader) Load(ctx context.Context, path string) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		v, err, _ := l.group.Do(path, func() (interface{}, error) {
			return l.load(ctx, path)
		})
		if err != nil {
			f.err = err
			return
		}
		f.asset = v.(*Asset)
	}()

	return f
}

// load 同步读取并解析模型描述
func (l *Loader) load(ctx context.Context, path string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoadFailed, path, err)
	}

	data, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoadFailed, path, err)
	}

	asset, err := ParseAsset(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetLoadFailed, path, err)
	}
	return asset, nil
}
