package userservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAdminIDs получает список идентификаторов администраторов площадки
// Используется для рассылки уведомлений о новых бронированиях
func (c *Client) GetAdminIDs(ctx context.Context) ([]int64, error) {
	url := fmt.Sprintf("%s/internal/users/admins", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var admins AdminListResponse
	if err := json.NewDecoder(resp.Body).Decode(&admins); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return admins.AdminIDs, nil
}

// GetAdminIDsWithGracefulDegradation получает список администраторов с graceful degradation
// При недоступности UserService возвращает пустой список вместо ошибки:
// рассылка уведомлений best-effort и не должна ломать создание бронирования
func (c *Client) GetAdminIDsWithGracefulDegradation(ctx context.Context) []int64 {
	adminIDs, err := c.GetAdminIDs(ctx)
	if err != nil {
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("UserService unavailable, notifying owner and guest only: %v", err)
		return []int64{}
	}

	return adminIDs
}
