// Package plantnet is the client for the PlantNet species identification API.
//
// Identify uploads a single image with its organ hint as a multipart request and
// asks for the three best candidates in English with related images. Status
// and Languages expose the service health and language endpoints. Every call
// resolves to a services.Outcome; transport errors never escape.
package plantnet
