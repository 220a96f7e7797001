package catalogue

import (
	"fmt"
	"strings"
)

// DefaultMessagingBaseURL is the chat link purchase inquiries are sent to.
const DefaultMessagingBaseURL = "https://wa.me/584129878696"

const inquiryTemplate = `¡Hola Aquenio! Me interesa mucho el producto "%s" (Código: %s). ¿Podrías darme más detalles o indicarme cómo proceder con la compra?`

// InquiryText returns the prefilled message a customer sends about a product.
func InquiryText(name, code string) string {
	return fmt.Sprintf(inquiryTemplate, name, code)
}

// InquiryLink returns the messaging deep-link carrying the inquiry text.
func InquiryLink(baseURL, name, code string) string {
	return baseURL + "?text=" + encodeURIComponent(InquiryText(name, code))
}

const upperHex = "0123456789ABCDEF"

// encodeURIComponent escapes s like the ECMAScript function of the same name.
// The links are user-facing, so the escaping must stay byte-for-byte stable.
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}

	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
