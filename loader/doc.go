// SPDX-License-Identifier: EPL-2.0

// Package loader acquires audio payloads from local files, in-memory blobs
// and HTTP(S) URLs.
//
// Opening a source yields a Resource whose name, media type and size can be
// checked with Validate before the payload is read:
//
//	res, err := loader.New(loader.DefaultHTTPConfig, nil, nil).Open(ctx, loader.Parse(src))
//	if err != nil {
//		return err
//	}
//	defer res.Close()
//	if err := loader.Validate(res.MIMEType(), res.Size()); err != nil {
//		return err
//	}
//	data, err := res.ReadAll()
package loader
