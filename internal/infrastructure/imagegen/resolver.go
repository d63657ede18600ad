package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "z-logo-ai-api/pkg/errors"
)

// maxImageBytes 单张图像抓取上限
const maxImageBytes = 16 << 20

// Resolver 将图像地址解析为 base64 内联数据
type Resolver struct {
	httpClient *http.Client
}

// NewResolver 创建图像解析器
func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Resolver{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Resolve 抓取图像并编码为 base64。
// data URI 直接剥离前缀返回，不再发起网络请求。
func (r *Resolver) Resolve(ctx context.Context, imageURL string) (string, error) {
	if strings.HasPrefix(imageURL, "data:") {
		if idx := strings.Index(imageURL, ","); idx >= 0 {
			return imageURL[idx+1:], nil
		}
		return "", apperrors.New(apperrors.CodeImageFetchFailed, "malformed data uri")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeImageFetchFailed, "failed to create fetch request")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeImageFetchFailed, "failed to fetch image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(apperrors.CodeImageFetchFailed,
			fmt.Sprintf("image fetch returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeImageFetchFailed, "failed to read image body")
	}
	if len(data) > maxImageBytes {
		return "", apperrors.New(apperrors.CodeImageFetchFailed, "image exceeds size limit")
	}
	if len(data) == 0 {
		return "", apperrors.New(apperrors.CodeImageFetchFailed, "image body is empty")
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
