package store

import "errors"

var (
	// ErrBackupCopyFailed indicates a failure while writing a backup's contents.
	ErrBackupCopyFailed = errors.New("backup copy failed")
	// ErrBackupListFailed indicates the backups directory could not be listed.
	ErrBackupListFailed = errors.New("backup listing failed")
	// ErrBackupNameUnparsable is returned when a backup name is not an RFC3339 timestamp.
	ErrBackupNameUnparsable = errors.New("backup name is not an RFC3339 timestamp")
	// ErrBackupNotFound is returned when the named backup does not exist.
	ErrBackupNotFound = errors.New("backup not found")
	// ErrBackupRemoveFailed indicates deleting an expired backup failed.
	ErrBackupRemoveFailed = errors.New("backup remove failed")
	// ErrBackupsDirectoryFailed indicates a backups directory operation failed.
	ErrBackupsDirectoryFailed = errors.New("backups directory operation failed")
	// ErrBoltBucketMissing is returned when the records bucket does not exist.
	ErrBoltBucketMissing = errors.New("bolt bucket not found")
	// ErrBoltCloseFailed indicates closing the bolt handle failed.
	ErrBoltCloseFailed = errors.New("bolt close failed")
	// ErrBoltOpenFailed indicates opening the bolt database failed.
	ErrBoltOpenFailed = errors.New("bolt open failed")
	// ErrBoltReadFailed indicates reading records from bolt failed.
	ErrBoltReadFailed = errors.New("bolt read failed")
	// ErrBoltWriteFailed indicates writing records to bolt failed.
	ErrBoltWriteFailed = errors.New("bolt write failed")
	// ErrDigestFailed indicates computing a content digest failed.
	ErrDigestFailed = errors.New("content digest failed")
	// ErrFileNameInvalid is returned when a live file name contains path elements.
	ErrFileNameInvalid = errors.New("file name must be a bare name without path separators")
	// ErrLiveCreateFailed indicates creating the live file failed.
	ErrLiveCreateFailed = errors.New("live file create failed")
	// ErrLiveReadFailed indicates reading the live file failed.
	ErrLiveReadFailed = errors.New("live file read failed")
	// ErrLiveReplaceFailed indicates renaming the staged file over the live file failed.
	ErrLiveReplaceFailed = errors.New("live file replace failed")
	// ErrLiveStatFailed indicates statting the live file failed.
	ErrLiveStatFailed = errors.New("live file stat failed")
	// ErrRetentionInvalid is returned when the backup retention cap is below one.
	ErrRetentionInvalid = errors.New("retention cap must be at least 1")
	// ErrRootDirectoryFailed indicates a store root directory operation failed.
	ErrRootDirectoryFailed = errors.New("store root directory operation failed")
	// ErrRootNotDirectory is returned when the store root exists but is not a directory.
	ErrRootNotDirectory = errors.New("store root is not a directory")
	// ErrRootResolveFailed indicates resolving the store root path failed.
	ErrRootResolveFailed = errors.New("store root resolve failed")
	// ErrStoreClosed is returned when operations run on a closed engine.
	ErrStoreClosed = errors.New("store is closed")
	// ErrTempFileFailed indicates a temp file operation failed.
	ErrTempFileFailed = errors.New("temp file operation failed")
)
