package constvars

const HeaderContentType = "Content-Type"

const (
	MIMETextHTML                = "text/html"
	MIMETextHTMLCharsetUTF8     = "text/html; charset=utf-8"
	MIMEApplicationJSON         = "application/json"
	MIMEOctetStream             = "application/octet-stream"
)

const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusInternalServerError = 500
	StatusGatewayTimeout      = 504
)
