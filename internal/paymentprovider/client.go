package paymentprovider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client клиент HTTP API ЮKassa.
type Client struct {
	shopID     string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент ЮKassa. Таймаут ограничивает каждый
// запрос к шлюзу, нулевое значение заменяется на 10 секунд.
func NewClient(shopID, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		shopID:     shopID,
		secretKey:  secretKey,
		apiURL:     "https://api.yookassa.ru/v3",
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Idempotence-Key", uuid.New().String())
	}
	return req, nil
}

// readError формирует ошибку из не-2xx ответа шлюза: код статуса
// плюс усечённое тело для диагностики.
func readError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body))
}

// CreatePayment отправляет запрос на создание платежа.
func (c *Client) CreatePayment(ctx context.Context, reqParams CreatePaymentRequest) (*CreatePaymentResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/payments", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, readError(resp)
	}

	var paymentResp CreatePaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&paymentResp); err != nil {
		return nil, err
	}
	return &paymentResp, nil
}

// GetPayment запрашивает платёж по его идентификатору в шлюзе.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CapturePayment подтверждает платёж в состоянии waiting_for_capture
// на указанную сумму.
func (c *Client) CapturePayment(ctx context.Context, paymentID string, amount Amount) (*Payment, error) {
	body := struct {
		Amount Amount `json:"amount"`
	}{Amount: amount}

	req, err := c.newRequest(ctx, http.MethodPost, "/payments/"+paymentID+"/capture", body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
