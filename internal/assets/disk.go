package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix 图片对外访问路径前缀
const URLPrefix = "/images/"

// Store 上传资源存储
type Store interface {
	// Save stores the blob under a freshly generated unique name and
	// returns its public URL.
	Save(originalName string, r io.Reader) (string, error)
	// Delete removes a previously stored asset by its public URL.
	// Empty or non-managed URLs are ignored.
	Delete(url string) error
}

// DiskStore 按原图扩展名 + uuid 文件名落盘
type DiskStore struct {
	dir string
}

var _ Store = (*DiskStore)(nil)

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建图片目录失败: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("保存图片失败: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("写入图片失败: %w", err)
	}
	return URLPrefix + name, nil
}

func (s *DiskStore) Delete(url string) error {
	if url == "" || !strings.HasPrefix(url, URLPrefix) {
		return nil
	}
	// filepath.Base 防止路径穿越
	name := filepath.Base(strings.TrimPrefix(url, URLPrefix))
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the on-disk directory served at URLPrefix.
func (s *DiskStore) Dir() string {
	return s.dir
}
