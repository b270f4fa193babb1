package util

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"lms_backend/internal/model"
)

// ValidateMimeType sniffs the first 512 bytes and checks the detected MIME
// type against the allowed prefixes or exact types.
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, "video/") || mimeType == "application/x-mpegURL"
}

// MaterialTypeFromFilename maps a file extension onto the material type enum.
func MaterialTypeFromFilename(name string) model.MaterialType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "pdf":
		return model.MaterialPDF
	case "doc", "docx":
		return model.MaterialDoc
	case "ppt", "pptx":
		return model.MaterialPPT
	case "xls", "xlsx":
		return model.MaterialXLS
	case "txt":
		return model.MaterialText
	case "zip":
		return model.MaterialZip
	default:
		return model.MaterialOther
	}
}

// VideoTypeFromFilename maps a file extension onto the video type enum.
func VideoTypeFromFilename(name string) model.VideoType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "mp4":
		return model.VideoMP4
	case "avi":
		return model.VideoAVI
	case "mov":
		return model.VideoMOV
	case "wmv":
		return model.VideoWMV
	case "flv":
		return model.VideoFLV
	case "webm":
		return model.VideoWebM
	default:
		return model.VideoOther
	}
}
