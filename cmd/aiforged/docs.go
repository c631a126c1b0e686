package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           aiforge API
// @version         1.0
// @description     HTTP API for serving predictions from arbitrary packaged models.
//
// @contact.name   aiforge maintainers
// @contact.url    https://github.com/aliyansajid/aiforge
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
