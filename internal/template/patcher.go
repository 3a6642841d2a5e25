/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package template

import (
	"fmt"
	"strings"
)

// Function resource types whose code location is rewritten
const (
	ServerlessFunctionType = "AWS::Serverless::Function"
	LambdaFunctionType     = "AWS::Lambda::Function"
)

// ArtifactLocation is where the uploaded code package lives
type ArtifactLocation struct {
	Bucket string
	Key    string
}

// URI returns the s3:// form of the location
func (l ArtifactLocation) URI() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}

// PatchedResource records a resource whose code location was rewritten
type PatchedResource struct {
	LogicalID string
	Type      string
}

// PatchCodeLocations points every function resource that does not already
// reference S3, inline code or a container image at the uploaded artifact.
// Nothing else in the document is modified.
func PatchCodeLocations(doc Document, location ArtifactLocation) ([]PatchedResource, error) {
	var patched []PatchedResource

	for _, logicalID := range doc.Keys("Resources") {
		resourceType, _ := doc.Get("Resources", logicalID, "Type")
		props := []string{"Resources", logicalID, "Properties"}

		switch resourceType {
		case ServerlessFunctionType:
			if !needsServerlessCode(doc, props) {
				continue
			}
			if err := doc.Set(location.URI(), with(props, "CodeUri")...); err != nil {
				return nil, fmt.Errorf("failed to set CodeUri on %s: %w", logicalID, err)
			}
		case LambdaFunctionType:
			if !needsLambdaCode(doc, props) {
				continue
			}
			if err := doc.Set(location.Bucket, with(props, "Code", "S3Bucket")...); err != nil {
				return nil, fmt.Errorf("failed to set Code.S3Bucket on %s: %w", logicalID, err)
			}
			if err := doc.Set(location.Key, with(props, "Code", "S3Key")...); err != nil {
				return nil, fmt.Errorf("failed to set Code.S3Key on %s: %w", logicalID, err)
			}
		default:
			continue
		}

		patched = append(patched, PatchedResource{LogicalID: logicalID, Type: resourceType})
	}

	return patched, nil
}

func needsServerlessCode(doc Document, props []string) bool {
	if isImageFunction(doc, props) || doc.Exists(with(props, "InlineCode")...) {
		return false
	}
	if !doc.Exists(with(props, "CodeUri")...) {
		return true
	}
	// Structured locations and intrinsic functions are left to the author
	uri, ok := doc.Get(with(props, "CodeUri")...)
	if !ok {
		return false
	}
	return !strings.HasPrefix(uri, "s3://")
}

func needsLambdaCode(doc Document, props []string) bool {
	if isImageFunction(doc, props) {
		return false
	}
	code := with(props, "Code")
	if !doc.Exists(code...) {
		return true
	}
	if _, isScalar := doc.Get(code...); isScalar {
		// A local path left for packaging
		return true
	}
	for _, key := range []string{"S3Bucket", "S3Key", "ZipFile", "ImageUri"} {
		if doc.Exists(with(code, key)...) {
			return false
		}
	}
	return true
}

func isImageFunction(doc Document, props []string) bool {
	packageType, _ := doc.Get(with(props, "PackageType")...)
	return strings.EqualFold(packageType, "Image") || doc.Exists(with(props, "ImageUri")...)
}

func with(path []string, keys ...string) []string {
	out := make([]string, 0, len(path)+len(keys))
	out = append(out, path...)
	return append(out, keys...)
}
