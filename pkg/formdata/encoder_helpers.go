package formdata

// appendCRLF appends \r\n to buf.
func appendCRLF(buf []byte) []byte {
	return append(buf, '\r', '\n')
}

// appendDelimiter appends "--boundary" to buf.
func appendDelimiter(buf []byte, boundary string) []byte {
	buf = append(buf, '-', '-')
	return append(buf, boundary...)
}

// appendFinal appends the closing "--boundary--\r\n" to buf.
func appendFinal(buf []byte, boundary string) []byte {
	buf = appendDelimiter(buf, boundary)
	buf = append(buf, '-', '-')
	return appendCRLF(buf)
}
