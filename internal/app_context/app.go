package appcontext

import (
	"github.com/SeakMengs/AutoQR/internal/config"
	filestorage "github.com/SeakMengs/AutoQR/internal/file_storage"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Defaults are the placement and validation values from config.json,
	// used for every field a request leaves out.
	Defaults *config.QRDefaults

	// Store holds uploads, generated documents and cached previews per session.
	Store *filestorage.Store

	Inserter *autoqr.Inserter
}
