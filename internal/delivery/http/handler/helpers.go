package handler

import (
	"net/http"
	"strconv"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/dto"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/delivery/http/middleware"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/service"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/usecase"
	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/pkg/response"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	avatarFormField = "avatar"
	// multipartOverhead leaves room for the form boundaries around the image.
	multipartOverhead = 1 << 20
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses a uuid path variable and answers 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func currentSession(w http.ResponseWriter, r *http.Request) (*entity.Session, bool) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return nil, false
	}
	return session, true
}

// queryInt returns fallback for a missing or malformed value.
func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return value
}

func queryUUID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, nil)
		return nil, false
	}
	return &id, true
}

// readAvatar extracts the image part. The caller must call the returned close func.
func readAvatar(w http.ResponseWriter, r *http.Request) (*dto.AvatarUpload, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxAvatarSize+multipartOverhead)
	if err := r.ParseMultipartForm(service.MaxAvatarSize + multipartOverhead); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return nil, nil, false
	}

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Avatar file is required", nil)
		return nil, nil, false
	}

	upload := &dto.AvatarUpload{
		File:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	return upload, func() { _ = file.Close() }, true
}

// writeAvatarError reports whether err was an avatar rejection it answered.
func writeAvatarError(w http.ResponseWriter, err error) bool {
	switch err {
	case service.ErrUnsupportedImage:
		response.Error(w, http.StatusUnsupportedMediaType, "Avatar must be a PNG, JPEG or WebP image", nil)
	case service.ErrAvatarTooLarge:
		response.Error(w, http.StatusRequestEntityTooLarge, "Avatar must not exceed 2MB", nil)
	default:
		return false
	}
	return true
}

// writeSchedulingError answers the slot validation failures shared by staff and public booking.
func writeSchedulingError(w http.ResponseWriter, err error) bool {
	switch err {
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	case usecase.ErrInvalidDate:
		response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
	case usecase.ErrDateInPast:
		response.BadRequest(w, "Cannot book a date in the past")
	case usecase.ErrDoctorNotWorking:
		response.BadRequest(w, "Doctor does not work on this day")
	case usecase.ErrSlotUnavailable:
		response.Conflict(w, "Time slot is not available")
	default:
		return false
	}
	return true
}
