package files

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"careers-portal/internal/model"
)

// DefaultMaxUploadBytes 单个附件上限 20MB。
const DefaultMaxUploadBytes = 20 << 20

// Config 附件存储配置。
// BaseURL 非空时附件字节从远端文件服务按相对路径拉取，否则直接读本地目录。
type Config struct {
	Dir            string `yaml:"dir" json:"dir"`
	BaseURL        string `yaml:"base_url" json:"base_url"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" json:"max_upload_bytes"`
}

// Store 管理候选人附件的写入、读取与删除。
type Store struct {
	dir      string
	baseURL  string
	maxBytes int64
	client   *http.Client
	logger   *log.Logger
}

// NewStore 创建附件存储，client 仅在配置了 BaseURL 时使用。
func NewStore(cfg Config, client *http.Client) *Store {
	if cfg.Dir == "" {
		cfg.Dir = "uploads"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{
		dir:      cfg.Dir,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		maxBytes: cfg.MaxUploadBytes,
		client:   client,
		logger:   log.New(os.Stdout, "[files] ", log.LstdFlags),
	}
}

// Save 落盘一份上传文件并返回附件记录，超过大小上限时拒绝。
func (s *Store) Save(ctx context.Context, candidateID, label, filename string, r io.Reader) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	name := filepath.Base(filename)
	if name == "." || name == "/" || name == "" {
		return model.Document{}, fmt.Errorf("invalid file name %q", filename)
	}

	// candidateID 来自网关请求头，写路径与读路径走同一道越界检查
	relPath, err := s.cleanPath(path.Join(candidateID, label+"_"+name))
	if err != nil {
		return model.Document{}, err
	}
	fullPath := filepath.Join(s.dir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return model.Document{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return model.Document{}, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		_ = os.Remove(fullPath)
		return model.Document{}, fmt.Errorf("write upload: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(fullPath)
		return model.Document{}, fmt.Errorf("file exceeds %d byte limit", s.maxBytes)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return model.Document{
		CandidateID: candidateID,
		Label:       label,
		FileName:    name,
		Path:        relPath,
		Size:        written,
		ContentType: contentType,
	}, nil
}

// Open 打开本地附件用于下载或预览。
func (s *Store) Open(ctx context.Context, relPath string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	cleaned, err := s.cleanPath(relPath)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(filepath.Join(s.dir, filepath.FromSlash(cleaned)))
	if err != nil {
		return nil, "", fmt.Errorf("open attachment %s: %w", cleaned, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(cleaned))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}

// Delete 删除本地附件文件。
func (s *Store) Delete(ctx context.Context, relPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cleaned, err := s.cleanPath(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(cleaned))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete attachment %s: %w", cleaned, err)
	}
	return nil
}

// Fetch 返回附件完整字节，供报告合并使用。
// 配置了 BaseURL 时走远端文件服务，相对路径拼接在基础地址之后。
func (s *Store) Fetch(ctx context.Context, relPath string) ([]byte, error) {
	if s.baseURL == "" {
		rc, _, err := s.Open(ctx, relPath)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", relPath, err)
		}
		return data, nil
	}

	fetchURL, err := url.JoinPath(s.baseURL, relPath)
	if err != nil {
		return nil, fmt.Errorf("build attachment url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, relPath)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func (s *Store) cleanPath(relPath string) (string, error) {
	cleaned := path.Clean(strings.TrimPrefix(relPath, "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid attachment path %q", relPath)
	}
	return cleaned, nil
}
