package dto

import "io"

// AvatarUpload is the image part of a multipart avatar request.
type AvatarUpload struct {
	File        io.Reader
	Size        int64
	ContentType string
}
