package service

import (
	"errors"

	"github.com/tasklist/tasklist-api/internal/core/domain"
)

// storageErr lets domain errors from a repository through untouched and hides
// anything else behind msg.
func storageErr(msg string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Failed(msg, err)
}
