// Package iucn looks up conservation assessments in the IUCN Red List.
package iucn
