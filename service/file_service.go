package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileService stores uploaded documents on the local filesystem and issues
// expiring signed download URLs so raw medical records are never served
// from an unauthenticated path.
type FileService struct {
	uploadDir string
	secret    []byte
	ttl       time.Duration
}

func NewFileService(uploadDir, urlSecret string, ttlSeconds int64) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if ttlSeconds <= 0 {
		ttlSeconds = 900
	}
	return &FileService{
		uploadDir: uploadDir,
		secret:    []byte(urlSecret),
		ttl:       time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// SaveUpload writes the uploaded file under a collision-safe name and
// returns the storage path.
func (s *FileService) SaveUpload(documentID string, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := sanitizeFilename(fmt.Sprintf("%s_%d%s", documentID, time.Now().Unix(), ext))
	path := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

// Read returns the stored bytes of a document.
func (s *FileService) Read(storagePath string) ([]byte, error) {
	return os.ReadFile(storagePath)
}

// Remove deletes the stored file. Missing files are not an error.
func (s *FileService) Remove(storagePath string) error {
	err := os.Remove(storagePath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SignedURL builds an expiring download path for a document.
func (s *FileService) SignedURL(documentID string) string {
	expires := time.Now().Add(s.ttl).Unix()
	sig := s.sign(documentID, expires)
	return fmt.Sprintf("/api/v1/documents/%s/download?expires=%d&signature=%s", documentID, expires, sig)
}

// VerifySignature checks a download signature and its expiry.
func (s *FileService) VerifySignature(documentID string, expires int64, signature string) bool {
	if time.Now().Unix() > expires {
		return false
	}
	expected := s.sign(documentID, expires)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *FileService) sign(documentID string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(documentID + ":" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}
