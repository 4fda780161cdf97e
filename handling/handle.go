package handling

import (
	"errors"
	"lager_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// User facing messages.
const (
	MsgProductNotFound   = "Produkt ikke fundet."
	MsgEANConflict       = "EAN bruges allerede af et andet produkt."
	MsgEANAndNameNeeded  = "EAN og navn skal udfyldes."
	MsgNoTagTerms        = "Indtast mindst ét gyldigt tag."
	MsgNoSearchInput     = "Indtast enten et product_id eller nogle tags."
	MsgNoBarcodeFound    = "Ingen stregkode fundet."
	MsgEANTooShort       = "Ugyldig EAN (for kort)."
	MsgPhotoMissingEAN   = "Mangler EAN til foto. Scan eller indtast EAN først."
	MsgPhotoFailed       = "Foto blev annulleret eller mislykkedes."
	MsgInvalidProductID  = "Ugyldigt produkt-id."
	msgDatabaseErrPrefix = "Databasefejl: "
)

// HandleDBError writes the envelope for a repository error. data, when not nil,
// is echoed back so the client can redisplay its form.
func HandleDBError(err error, data any, logger *gecho.Logger, w http.ResponseWriter) error {
	switch {
	case errors.Is(err, lib.ErrNotFound):
		return gecho.NotFound(w, gecho.WithMessage(MsgProductNotFound), gecho.WithData(data), gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		return gecho.Conflict(w, gecho.WithMessage(MsgEANConflict), gecho.WithData(data), gecho.Send())
	}

	logger.Error("Database operation failed", gecho.Field("error", err), gecho.WithCallerSkip(3))
	return gecho.InternalServerError(w,
		gecho.WithMessage(msgDatabaseErrPrefix+err.Error()),
		gecho.WithData(data),
		gecho.Send(),
	)
}
