package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxErrorBody = 512

// Client клиент REST API барбершопа.
// Ни один метод не возвращает ошибку наружу: всё сводится к Result.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создаёт клиент с ограничением времени на каждый запрос
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// UserByTelegramID получает пользователя по telegram id
func (c *Client) UserByTelegramID(ctx context.Context, telegramID int64) Result[*model.User] {
	return get[*model.User](ctx, c, fmt.Sprintf("/users/telegram/%d/", telegramID), nil)
}

// Barbers список активных мастеров
func (c *Client) Barbers(ctx context.Context) Result[[]model.Barber] {
	return get[[]model.Barber](ctx, c, "/barbers/", url.Values{"is_active": {"true"}})
}

// Barber получает мастера по id
func (c *Client) Barber(ctx context.Context, id int64) Result[*model.Barber] {
	return get[*model.Barber](ctx, c, fmt.Sprintf("/barbers/%d/", id), nil)
}

// ServiceTypes список типов услуг
func (c *Client) ServiceTypes(ctx context.Context) Result[[]model.ServiceType] {
	return get[[]model.ServiceType](ctx, c, "/service-types/", nil)
}

// Services услуги указанного типа, которые оказывает мастер
func (c *Client) Services(ctx context.Context, typeID, barberID int64) Result[[]model.Service] {
	query := url.Values{
		"service_type": {strconv.FormatInt(typeID, 10)},
		"barber":       {strconv.FormatInt(barberID, 10)},
	}
	return get[[]model.Service](ctx, c, "/services/", query)
}

// Service получает услугу по id
func (c *Client) Service(ctx context.Context, id int64) Result[*model.Service] {
	return get[*model.Service](ctx, c, fmt.Sprintf("/services/%d/", id), nil)
}

type slotsResponse struct {
	Slots []string `json:"available_slots"`
}

// AvailableSlots свободное время на дату. Пересечения с записями и перерывами исключает API.
func (c *Client) AvailableSlots(ctx context.Context, date time.Time, barberID, serviceID int64) Result[[]string] {
	query := url.Values{
		"date":    {date.Format(time.DateOnly)},
		"barber":  {strconv.FormatInt(barberID, 10)},
		"service": {strconv.FormatInt(serviceID, 10)},
	}
	res := get[slotsResponse](ctx, c, "/bookings/available-slots/", query)
	if !res.IsOK() {
		return Result[[]string]{Status: res.Status, Err: res.Err}
	}
	return OK(res.Value.Slots)
}

// CreateBooking создаёт запись, API возвращает её с id и end_time
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) Result[*model.Booking] {
	return send[*model.Booking](ctx, c, http.MethodPost, "/bookings/", req)
}

// Booking получает запись по id
func (c *Client) Booking(ctx context.Context, id int64) Result[*model.Booking] {
	return get[*model.Booking](ctx, c, fmt.Sprintf("/bookings/%d/", id), nil)
}

// PatchBooking меняет статус или комментарий записи
func (c *Client) PatchBooking(ctx context.Context, id int64, patch model.BookingPatch) Result[*model.Booking] {
	return send[*model.Booking](ctx, c, http.MethodPatch, fmt.Sprintf("/bookings/%d/", id), patch)
}

// SubmitRating отправляет оценку мастера
func (c *Client) SubmitRating(ctx context.Context, rating model.Rating) Result[*model.Rating] {
	return send[*model.Rating](ctx, c, http.MethodPost, "/ratings/", rating)
}

// Breaks перерывы мастера
func (c *Client) Breaks(ctx context.Context, barberID int64) Result[[]model.Break] {
	query := url.Values{"barber": {strconv.FormatInt(barberID, 10)}}
	return get[[]model.Break](ctx, c, "/breaks/", query)
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) Result[T] {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return send[T](ctx, c, http.MethodGet, path, nil)
}

// send выполняет запрос и декодирует JSON-ответ в T
func send[T any](ctx context.Context, c *Client, method, path string, body any) Result[T] {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Failed[T](fmt.Errorf("marshal request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Failed[T](fmt.Errorf("build request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return Failed[T](fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return NotFound[T]()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &HTTPStatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(raw)}
		c.logger.Warn("API returned error status",
			zap.String("request_id", requestID),
			zap.Error(statusErr))
		return Failed[T](statusErr)
	}

	var value T
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return Failed[T](fmt.Errorf("%s %s: empty response body", method, path))
		}
		return Failed[T](fmt.Errorf("%s %s: decode response: %w", method, path, err))
	}

	return OK(value)
}
