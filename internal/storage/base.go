// Package storage implements depot.Storage on the local filesystem.
//
// Layout under the configured storage directory:
//
//	<storage_dir>/content/
//	  units/<type_id>/<digest[0:2]>/<digest[2:]>    (FileStorage)
//	  shared/<provider>/<storage_id>/
//	    content/                                     (SharedStorage blob)
//	    links/<unit_id> -> <absolute path of content/> (one per unit)
//
// No locks are taken. Writers rely on atomic rename and atomic symlink creation,
// so several processes, possibly on different hosts, may share one storage directory.
package storage

import "depot/internal/depot"

// BaseStorage provides no-op Open and Close and unimplemented Put and Get.
// Backends embed it and override what they support.
type BaseStorage struct{}

func (BaseStorage) Open() error  { return nil }
func (BaseStorage) Close() error { return nil }

func (BaseStorage) Put(depot.Unit, string, string) error { return depot.ErrNotImplemented }

func (BaseStorage) Get(depot.Unit) (string, error) { return "", depot.ErrNotImplemented }

var _ depot.Storage = BaseStorage{}
