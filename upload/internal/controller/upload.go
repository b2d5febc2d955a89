package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	inErrors "github.com/Alturino/storefront/upload/internal/errors"
	"github.com/Alturino/storefront/upload/internal/otel"
	"github.com/Alturino/storefront/upload/internal/service"
	"github.com/Alturino/storefront/upload/pkg/request"
)

const (
	formFieldFile   = "file"
	multipartMemory = 1 << 20
	// room for the multipart envelope around a file at the size limit
	multipartSlack = 1 << 20
)

type UploadController struct {
	service *service.UploadService
	maxSize int64
}

func AttachUploadController(
	router *mux.Router,
	auth mux.MiddlewareFunc,
	service *service.UploadService,
	maxSize int64,
) {
	controller := UploadController{service: service, maxSize: maxSize}
	router.Handle("/upload", auth(http.HandlerFunc(controller.Upload))).Methods(http.MethodPost)
}

func (ctrl UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "UploadController Upload")
	defer span.End()

	folder := r.URL.Query().Get("folder")
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UploadController Upload").
		Str(log.KeyUploadFolder, folder).
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "parsing multipart form").Logger()
	logger.Trace().Msg("parsing multipart form")
	r.Body = http.MaxBytesReader(w, r.Body, ctrl.maxSize+multipartSlack)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		err = fmt.Errorf("failed parsing multipart form with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		maxBytesErr := &http.MaxBytesError{}
		if errors.As(err, &maxBytesErr) {
			inHttp.WriteErrorResponse(c, w, http.StatusRequestEntityTooLarge, inErrors.ErrFileTooLarge.Error())
			return
		}
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, inErrors.ErrNoFile.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(formFieldFile)
	if err != nil {
		err = fmt.Errorf("failed reading form file with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, inErrors.ErrNoFile.Error())
		return
	}
	defer file.Close()
	logger.Trace().Str(log.KeyUploadFilename, header.Filename).Int64("size", header.Size).Msg("parsed multipart form")

	logger = logger.With().Str(log.KeyProcess, "uploading file").Logger()
	logger.Trace().Msg("uploading file")
	res, err := ctrl.service.Upload(c, request.Upload{
		Folder:   folder,
		Filename: header.Filename,
		Size:     header.Size,
		File:     file,
	})
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		switch {
		case errors.Is(err, inErrors.ErrFileTooLarge):
			inHttp.WriteErrorResponse(c, w, http.StatusRequestEntityTooLarge, inErrors.ErrFileTooLarge.Error())
		case errors.Is(err, inErrors.ErrUnsupportedType):
			inHttp.WriteErrorResponse(c, w, http.StatusUnsupportedMediaType, inErrors.ErrUnsupportedType.Error())
		case errors.Is(err, inErrors.ErrFolderNotAllowed):
			inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, inErrors.ErrFolderNotAllowed.Error())
		case errors.Is(err, inErrors.ErrNoFile):
			inHttp.WriteErrorResponse(c, w, http.StatusBadRequest, inErrors.ErrNoFile.Error())
		default:
			inHttp.WriteErrorResponse(c, w, http.StatusInternalServerError, "Upload failed")
		}
		return
	}
	logger.Info().Str(log.KeyUploadPath, res.Path).Msg("uploaded file")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, http.StatusOK, res)
}
