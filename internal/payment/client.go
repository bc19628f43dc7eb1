package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the HTTP-backed gateway client. It is credentials-bound and
// built once at process start, then shared by all requests.
type Client struct {
	BaseURL    string
	MerchantID string
	PublicKey  string
	PrivateKey string
	HTTP       *http.Client
}

func NewClient(baseURL, merchantID, publicKey, privateKey string) *Client {
	return &Client{
		BaseURL:    baseURL,
		MerchantID: merchantID,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		HTTP:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) GenerateClientToken(opts TokenOptions, cb TokenCallback) {
	go func() {
		body, err := c.post("/client_token", opts)
		if err != nil {
			cb(err, nil)
			return
		}
		var tok ClientToken
		if err := json.Unmarshal(body, &tok); err != nil {
			cb(fmt.Errorf("gateway: decode client token: %w", err), nil)
			return
		}
		cb(nil, &tok)
	}()
}

func (c *Client) Sale(req SaleRequest, cb SaleCallback) {
	go func() {
		body, err := c.post("/transactions", struct {
			MerchantID  string      `json:"merchantId"`
			Transaction SaleRequest `json:"transaction"`
		}{MerchantID: c.MerchantID, Transaction: req})
		if err != nil {
			cb(err, nil)
			return
		}
		var res SaleResult
		if err := json.Unmarshal(body, &res); err != nil {
			cb(fmt.Errorf("gateway: decode sale result: %w", err), nil)
			return
		}
		res.Raw = json.RawMessage(body)
		cb(nil, &res)
	}()
}

func (c *Client) post(path string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.PublicKey, c.PrivateKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("gateway: read response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("gateway: %s returned %d", path, resp.StatusCode)
	}
	return body, nil
}
