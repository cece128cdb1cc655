package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/common/logger"
	"heritage-backend/config"
	"heritage-backend/models"

	"go.uber.org/zap"
)

// PaymentGateway creates hosted payment links and validates provider
// callbacks. PayOSClient is the production implementation; tests substitute
// fakes.
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, order *models.Order) (*PaymentLink, error)
	HandleReturn(params map[string]string) ReturnResult
	VerifyWebhook(payload *WebhookPayload) bool
}

// PaymentLink is the provider-hosted checkout a customer is redirected to.
type PaymentLink struct {
	CheckoutURL string `json:"checkoutUrl"`
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
}

// ReturnResult is the interpreted outcome of a provider return redirect.
type ReturnResult struct {
	Success    bool
	PaymentRef int64
	Message    string
}

// WebhookPayload mirrors the provider webhook envelope. Data keeps raw JSON
// so the signature can be verified over exactly what was sent.
type WebhookPayload struct {
	Code      string                     `json:"code"`
	Desc      string                     `json:"desc"`
	Data      map[string]json.RawMessage `json:"data"`
	Signature string                     `json:"signature"`
}

// WebhookData is the decoded order information inside a verified webhook.
type WebhookData struct {
	OrderCode int64  `json:"orderCode"`
	Amount    int64  `json:"amount"`
	Code      string `json:"code"`
	Desc      string `json:"desc"`
}

const payosEndpoint = "https://api-merchant.payos.vn"

// PayOSClient talks to the PayOS merchant API. Requests are signed with an
// HMAC-SHA256 checksum over the alphabetically ordered payload fields.
type PayOSClient struct {
	clientID    string
	apiKey      string
	checksumKey string
	endpoint    string
	returnURL   string
	cancelURL   string
	http        *http.Client
}

func NewPayOSClient(cfg *config.Config) *PayOSClient {
	endpoint := cfg.PayOSBaseURL
	if endpoint == "" {
		endpoint = payosEndpoint
	}
	return &PayOSClient{
		clientID:    cfg.PayOSClientID,
		apiKey:      cfg.PayOSAPIKey,
		checksumKey: cfg.PayOSChecksumKey,
		endpoint:    strings.TrimRight(endpoint, "/"),
		returnURL:   cfg.PayOSReturnURL,
		cancelURL:   cfg.PayOSCancelURL,
		http:        &http.Client{Timeout: cfg.PayOSTimeout},
	}
}

type payosCreateRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
	Signature   string `json:"signature"`
}

type payosCreateResponse struct {
	Code string       `json:"code"`
	Desc string       `json:"desc"`
	Data *PaymentLink `json:"data"`
}

// CreatePaymentLink registers the order with PayOS and returns the hosted
// checkout URL. The provider keys on the numeric payment reference, so the
// order's PaymentRef is sent as its orderCode.
func (c *PayOSClient) CreatePaymentLink(ctx context.Context, order *models.Order) (*PaymentLink, error) {
	description := "Order " + strconv.FormatInt(order.PaymentRef, 10)
	req := payosCreateRequest{
		OrderCode:   order.PaymentRef,
		Amount:      order.TotalAmount,
		Description: description,
		ReturnURL:   c.returnURL,
		CancelURL:   c.cancelURL,
	}
	req.Signature = c.sign(map[string]string{
		"amount":      strconv.FormatInt(req.Amount, 10),
		"cancelUrl":   req.CancelURL,
		"description": req.Description,
		"orderCode":   strconv.FormatInt(req.OrderCode, 10),
		"returnUrl":   req.ReturnURL,
	})

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/v2/payment-requests", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-client-id", c.clientID)
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, apperrors.External("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.External("reading payment provider response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.External(
			fmt.Sprintf("payment provider returned HTTP %d", resp.StatusCode), nil)
	}

	var parsed payosCreateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperrors.External("decoding payment provider response", err)
	}
	if parsed.Code != "00" || parsed.Data == nil || parsed.Data.CheckoutURL == "" {
		return nil, apperrors.External(
			"payment link creation rejected: "+parsed.Desc, nil)
	}

	logger.Log.Info("Payment link created",
		zap.Int64("payment_ref", order.PaymentRef),
		zap.String("order_code", order.OrderCode),
	)
	return parsed.Data, nil
}

// HandleReturn interprets the query parameters of a provider return
// redirect. The response code is the single source of truth: "00" means
// paid. When the secondary status field disagrees, the disagreement is
// logged and the code still wins.
func (c *PayOSClient) HandleReturn(params map[string]string) ReturnResult {
	code := params["code"]
	status := params["status"]
	success := code == "00"

	statusClaims := status == "PAID" || status == "SUCCESS"
	if success != statusClaims && status != "" {
		logger.Log.Warn("Provider return code and status disagree",
			zap.String("code", code),
			zap.String("status", status),
			zap.String("order_code", params["orderCode"]),
		)
	}

	result := ReturnResult{Success: success}
	if raw := params["orderCode"]; raw != "" {
		ref, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logger.Log.Warn("Provider return carried non-numeric orderCode",
				zap.String("order_code", raw))
			result.Success = false
			result.Message = "malformed order code"
			return result
		}
		result.PaymentRef = ref
	}

	if success {
		result.Message = "Payment successful"
	} else if desc := params["desc"]; desc != "" {
		result.Message = "Payment failed: " + desc
	} else {
		result.Message = "Payment failed"
	}
	return result
}

// VerifyWebhook checks the HMAC signature over the webhook data object. The
// signed string is the data's keys in alphabetical order rendered as
// key=value pairs joined with '&', matching the provider's checksum scheme.
func (c *PayOSClient) VerifyWebhook(payload *WebhookPayload) bool {
	if payload == nil || payload.Signature == "" || len(payload.Data) == 0 {
		return false
	}

	keys := make([]string, 0, len(payload.Data))
	for k := range payload.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(rawJSONValue(payload.Data[k]))
	}

	expected := computeHMAC(sb.String(), c.checksumKey)
	return hmac.Equal([]byte(expected), []byte(payload.Signature))
}

// DecodeWebhookData extracts the typed order fields from a verified payload.
func DecodeWebhookData(payload *WebhookPayload) (*WebhookData, error) {
	raw, err := json.Marshal(payload.Data)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	var data WebhookData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, apperrors.Validation("malformed webhook data")
	}
	return &data, nil
}

// rawJSONValue renders a JSON value the way the provider signs it: strings
// unquoted, everything else as its literal JSON text, null as empty.
func rawJSONValue(raw json.RawMessage) string {
	s := string(raw)
	if s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}

func (c *PayOSClient) sign(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	return computeHMAC(strings.Join(pairs, "&"), c.checksumKey)
}

func computeHMAC(data, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignWebhook produces the signature a provider would attach to the given
// data object. Exposed for the mock payment flow and tests.
func (c *PayOSClient) SignWebhook(data map[string]json.RawMessage) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(rawJSONValue(data[k]))
	}
	return computeHMAC(sb.String(), c.checksumKey)
}

var _ PaymentGateway = (*PayOSClient)(nil)
