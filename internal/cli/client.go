package cli

// #region imports
import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// #endregion

// #region inspect-client

// defaultInspectAddr matches the default inspection server address.
const defaultInspectAddr = "127.0.0.1:8077"

// inspectClient talks to a running agent's inspection server.
type inspectClient struct {
	base  string
	httpc *http.Client
}

func newInspectClient(addr string) *inspectClient {
	return &inspectClient{
		base:  "http://" + addr,
		httpc: &http.Client{Timeout: 90 * time.Second},
	}
}

// get fetches path and decodes the JSON response into out.
func (c *inspectClient) get(path string, out any) error {
	resp, err := c.httpc.Get(c.base + path)
	if err != nil {
		return fmt.Errorf("is the agent running? %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// post sends body to path and decodes the JSON response into out. Non-2xx
// responses surface the server's error message.
func (c *inspectClient) post(path string, body []byte, out any) error {
	resp, err := c.httpc.Post(c.base+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("is the agent running? %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func readError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return fmt.Errorf("%s (HTTP %d)", e.Error, resp.StatusCode)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(data))
}

// #endregion
