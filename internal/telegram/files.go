package telegram

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-telegram/bot"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
)

// DownloadMedia downloads a Telegram file and packages it as an inline
// attachment: base64 payload, declared MIME type and the actual byte size.
func DownloadMedia(ctx context.Context, b *bot.Bot, fileID, mimeType string) (domain.MediaItem, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return domain.MediaItem{}, fmt.Errorf("get file: %w", err)
	}

	fileURL := b.FileDownloadLink(file)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return domain.MediaItem{}, fmt.Errorf("create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return domain.MediaItem{}, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.MediaItem{}, fmt.Errorf("read file data: %w", err)
	}

	if mimeType == "" {
		mimeType = resp.Header.Get("Content-Type")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return domain.MediaItem{
		Name: path.Base(file.FilePath),
		MIME: mimeType,
		Size: int64(len(data)),
		Data: base64.StdEncoding.EncodeToString(data),
		URL:  fileURL,
	}, nil
}
