package payment

import qrcode "github.com/skip2/go-qrcode"

// WriteQR renders the payment URL as a PNG so the customer can scan it with
// their banking app instead of copying the link.
func WriteQR(paymentURL, path string) error {
	return qrcode.WriteFile(paymentURL, qrcode.Medium, 256, path)
}
