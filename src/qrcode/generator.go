package qrcode

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	minSize     = 128
	maxSize     = 1024
)

// FormLink คืนค่า URL สาธารณะสำหรับเปิดกรอกฟอร์ม
func FormLink(base, formID string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), formID)
}

// ClampSize keeps a requested image size within what scanners handle well.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < minSize:
		return minSize
	case size > maxSize:
		return maxSize
	}
	return size
}

// GeneratePNG สร้าง QR Code จากข้อมูลที่กำหนด แล้วคืนค่าเป็น PNG bytes
func GeneratePNG(data string, size int) ([]byte, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, ClampSize(size))
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}
	return png, nil
}
