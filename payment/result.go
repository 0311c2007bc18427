package payment

import (
	"net/url"
	"strconv"
)

// Gateway response code for an approved transaction.
const responseCodeSuccess = "00"

// Result is the outcome the gateway reports when it redirects the customer
// back after an online payment attempt.
type Result struct {
	OrderID       string
	Success       bool
	ResponseCode  string
	Amount        float64
	TransactionNo string
	OrderInfo     string
}

// ParseReturnParams reads the vnp_* query parameters from the gateway's
// return redirect. Amounts arrive multiplied by 100.
func ParseReturnParams(query url.Values) Result {
	amount, _ := strconv.ParseFloat(query.Get("vnp_Amount"), 64)
	code := query.Get("vnp_ResponseCode")
	return Result{
		OrderID:       query.Get("vnp_TxnRef"),
		Success:       code == responseCodeSuccess,
		ResponseCode:  code,
		Amount:        amount / 100,
		TransactionNo: query.Get("vnp_TransactionNo"),
		OrderInfo:     query.Get("vnp_OrderInfo"),
	}
}
