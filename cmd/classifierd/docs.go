package main

// General API documentation for swaggo. Run `make swagger-gen` to regenerate.
//
// @title           classifierd API
// @version         1.0
// @description     HTTP API for multi-model text classification inference.
//
// @contact.name   classifierd maintainers
// @contact.url    https://github.com/dhairyamishra/CLOUD-NLP-CLASSIFIER-GCP
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
