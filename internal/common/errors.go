// Package common defines the sentinel errors shared by the HTTP layer,
// the services and the workers. Error messages double as wire strings,
// so their exact spelling is part of the API contract. Match with errors.Is.
package common

import "errors"

var (
	// validation errors (400)
	ErrMissingEmail     = errors.New("Missing email")
	ErrMissingPassword  = errors.New("Missing password")
	ErrAlreadyExist     = errors.New("Already exist")
	ErrMissingName      = errors.New("Missing name")
	ErrMissingType      = errors.New("Missing type")
	ErrMissingData      = errors.New("Missing data")
	ErrParentNotFound   = errors.New("Parent not found")
	ErrParentNotAFolder = errors.New("Parent is not a folder")
	ErrFolderNoContent  = errors.New("A folder doesn't have content")

	// auth errors (401)
	ErrUnauthorized = errors.New("Unauthorized")

	// lookup errors (404)
	ErrNotFound = errors.New("Not found")

	// job errors, reported to the queue to drive retry
	ErrMissingFileID = errors.New("Missing fileId")
	ErrMissingUserID = errors.New("Missing userId")
	ErrFileNotFound  = errors.New("File not found")
	ErrUserNotFound  = errors.New("User not found")
)
