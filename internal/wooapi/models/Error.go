package models

import "fmt"

type ErrorWoo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

func (e *ErrorWoo) Error() string {
	return fmt.Sprintf("code:%s; message:%s; status:%s;",
		fmt.Sprint(e.Code),
		fmt.Sprint(e.Message),
		fmt.Sprint(e.Data.Status),
	)
}
