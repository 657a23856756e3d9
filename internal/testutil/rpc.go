package testutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// RPCEndpoint exposes the chain as a JSON-RPC endpoint over HTTP and returns
// its URL. Raw transactions sent through it are mined immediately.
func (c *Chain) RPCEndpoint(t testing.TB) string {
	t.Helper()

	attached, ok := c.Backend.Client().(interface{ Client() *rpc.Client })
	require.True(t, ok, "simulated client does not expose its RPC client")
	client := attached.Client()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		args := make([]any, len(req.Params))
		for i, param := range req.Params {
			args[i] = param
		}

		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
		var result json.RawMessage
		err := client.CallContext(r.Context(), &result, req.Method, args...)
		switch {
		case err != nil:
			resp.Error = &rpcError{Code: -32000, Message: err.Error()}
			var coded rpc.Error
			if errors.As(err, &coded) {
				resp.Error.Code = coded.ErrorCode()
			}
			var withData rpc.DataError
			if errors.As(err, &withData) {
				resp.Error.Data = withData.ErrorData()
			}
		case len(result) == 0:
			resp.Result = json.RawMessage("null")
		default:
			resp.Result = result
		}

		if err == nil && req.Method == "eth_sendRawTransaction" {
			c.Backend.Commit()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	return server.URL
}
