package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/segyhp/coal-settlement/internal/repository"
	customError "github.com/segyhp/coal-settlement/pkg/errors"
)

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// lookupErr turns a repository miss into a NotFound for entity and anything
// else into a storage error. Business errors pass through.
func lookupErr(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return customError.WrapNotFound(entity, id)
	}
	return customError.AsBusiness(err)
}
