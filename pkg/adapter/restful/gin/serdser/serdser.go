// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser provides the common serialization and
// deserialization helpers of the REST resources. Requests are bound
// and validated by gin (using go-playground/validator tags), while
// errors are reported as JSON documents with a detail field, or as a
// field-name to messages map for the validation errors.
package serdser

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/result"
)

// Bind deserializes the request into req using the b binding and
// validates it. In case of errors, a 400 response is written and
// false is returned.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

// SerErr writes err as a JSON response. The status code is taken from
// the *cerr.Error in the err chain, defaulting to 500. An expired
// request context is reported by 504.
func SerErr(c *gin.Context, err error) {
	code, ce := cerr.StatusOf(err)
	switch {
	case ce != nil:
		err = ce.Err
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	c.JSON(code, gin.H{"detail": err.Error()})
}

// BearerToken extracts the session token from the Authorization
// header, which must look like "Bearer <uuid>". If the header is
// missing or malformed, an UnknownSession error is written and false
// is returned.
func BearerToken(c *gin.Context) (uuid.UUID, bool) {
	h := c.GetHeader("Authorization")
	scheme, tok, found := strings.Cut(h, " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		if token, err := uuid.Parse(strings.TrimSpace(tok)); err == nil {
			return token, true
		}
	}
	SerErr(c, cerr.UnknownSession())
	return uuid.Nil, false
}

// Await waits for ch to be settled while the request is alive. If ch
// fails, or the request is abandoned, an error response is written
// and false is returned.
func Await[T any](c *gin.Context, ch *result.Channel[T]) (T, bool) {
	v, err := ch.Await(c.Request.Context())
	if err != nil {
		SerErr(c, err)
		return v, false
	}
	return v, true
}
