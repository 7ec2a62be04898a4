// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Service katmanı bu error'ları fmt.Errorf("%w: ...") ile sarmalayıp döner,
// handler katmanı errors.Is ile yakalayıp HTTP status code'a çevirir.
// Web katmanı da API'den gelen status code'ları apiclient üzerinden aynı
// error'lara geri çevirir — iki tarafta da aynı errors.Is kontrolü çalışır.
package pkg

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyExists   = errors.New("already exists")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal error")
)
