package models

import (
	"encoding/json"
	"fmt"
)

// RPCRequest is the generic remote object-call envelope of the Odoo
// external API (POST /jsonrpc)
type RPCRequest struct {
	Jsonrpc string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  RPCParams `json:"params"`
	ID      int64     `json:"id"`
}

type RPCParams struct {
	Service string        `json:"service"`
	Method  string        `json:"method"`
	Args    []interface{} `json:"args"`
}

type RPCResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *ErrorRPC       `json:"error"`
}

type ErrorRPC struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Debug   string `json:"debug"`
	} `json:"data"`
}

func (e *ErrorRPC) Error() string {
	return fmt.Sprintf("code:%d; message:%s; name:%s; data:%s;",
		e.Code,
		e.Message,
		e.Data.Name,
		e.Data.Message,
	)
}

// Many2One decodes the Odoo relation value which arrives either as
// [id, "display name"] or as false when unset
type Many2One struct {
	ID   int
	Name string
}

func (m *Many2One) UnmarshalJSON(data []byte) error {
	m.ID = 0
	m.Name = ""

	if string(data) == "false" || string(data) == "null" {
		return nil
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) > 0 {
		if id, ok := raw[0].(float64); ok {
			m.ID = int(id)
		}
	}
	if len(raw) > 1 {
		if name, ok := raw[1].(string); ok {
			m.Name = name
		}
	}
	return nil
}

func (m Many2One) MarshalJSON() ([]byte, error) {
	if m.ID == 0 {
		return []byte("false"), nil
	}
	return json.Marshal([]interface{}{m.ID, m.Name})
}
