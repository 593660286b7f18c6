package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidtube/pkg/apperr"
)

// storeErr 翻译存储层错误：超时/取消 -> Unavailable，其余一律不外泄细节
func storeErr(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.KindUnavailable, "storage unavailable", err)
	}
	return apperr.Wrap(apperr.KindUnknown, msg, err)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
