package payment

import (
	"net/url"
	"testing"
)

func TestParseReturnParamsSuccess(t *testing.T) {
	query := url.Values{
		"vnp_ResponseCode":  {"00"},
		"vnp_TxnRef":        {"ord-42"},
		"vnp_Amount":        {"3100"},
		"vnp_TransactionNo": {"14588891"},
		"vnp_OrderInfo":     {"Order ord-42"},
	}

	result := ParseReturnParams(query)

	if !result.Success {
		t.Error("response code 00 should be a success")
	}
	if result.OrderID != "ord-42" {
		t.Errorf("OrderID = %q, want %q", result.OrderID, "ord-42")
	}
	if result.Amount != 31 {
		t.Errorf("Amount = %v, want 31 (gateway sends minor units x100)", result.Amount)
	}
	if result.TransactionNo != "14588891" {
		t.Errorf("TransactionNo = %q", result.TransactionNo)
	}
}

func TestParseReturnParamsFailure(t *testing.T) {
	query := url.Values{
		"vnp_ResponseCode": {"24"},
		"vnp_TxnRef":       {"ord-43"},
	}

	result := ParseReturnParams(query)

	if result.Success {
		t.Error("a non-00 response code is a failed payment")
	}
	if result.ResponseCode != "24" {
		t.Errorf("ResponseCode = %q, want %q", result.ResponseCode, "24")
	}
	if result.OrderID != "ord-43" {
		t.Errorf("OrderID = %q, want %q", result.OrderID, "ord-43")
	}
}
