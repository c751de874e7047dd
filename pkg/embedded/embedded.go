// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的资源。
//
// 以 "data/" 开头的路径从嵌入资源读取，其余路径从本地文件系统读取，
// 这样 --config 可以指向仓库之外的配置文件和模型描述。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const dataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化嵌入资源
// 必须在 main() 开始时、任何资源加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符并去掉 "./" 前缀
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// IsEmbeddedPath 判断路径是否指向嵌入资源
func IsEmbeddedPath(path string) bool {
	return strings.HasPrefix(normalize(path), dataPrefix)
}

// ReadFile 读取文件内容
//
// "data/" 路径读取嵌入资源（需要先 Init），其他路径读取本地文件。
func ReadFile(path string) ([]byte, error) {
	if !IsEmbeddedPath(path) {
		return os.ReadFile(path)
	}
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	return fs.ReadFile(dataFS, normalize(path))
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	if !IsEmbeddedPath(path) {
		_, err := os.Stat(path)
		return err == nil
	}
	if !initialized {
		return false
	}
	_, err := fs.Stat(dataFS, normalize(path))
	return err == nil
}

// Glob 在嵌入资源中匹配文件
// 路径模式必须以 "data/" 开头
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	if !IsEmbeddedPath(pattern) {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", pattern)
	}
	return fs.Glob(dataFS, normalize(pattern))
}
