// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: Apache-2.0

package checked

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// PackageID generates a deterministic package identifier from its
// fully-qualified global name, the same strategy as the teacher's
// GenerateFileID: use the name directly when short enough, otherwise
// hash it. Stability across runs on unchanged input is what lets
// pkg/cache reuse a prior build's object file.
func PackageID(globalName string) string {
	if len(globalName) <= 256 {
		return fmt.Sprintf("pkg:%s", globalName)
	}
	hash := sha256.Sum256([]byte(globalName))
	return fmt.Sprintf("pkg:%s", hex.EncodeToString(hash[:16]))
}

// DeclID generates a deterministic declaration identifier from its
// owning package, name, and declared source span — grounded on the
// teacher's GenerateFunctionID (path + name + full line/column range,
// signature excluded so the ID survives analyzer improvements that
// only change how a signature is rendered).
func DeclID(packageGlobalName, name string, startLine, endLine, startCol, endCol int) string {
	idStr := fmt.Sprintf("%s|%s|%d|%d|%d|%d", packageGlobalName, name, startLine, endLine, startCol, endCol)
	hash := sha256.Sum256([]byte(idStr))
	return fmt.Sprintf("decl:%s", hex.EncodeToString(hash[:]))
}
