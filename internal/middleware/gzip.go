package middleware

import chimw "github.com/go-chi/chi/v5/middleware"

// WithGzip сжимает JSON и текстовые ответы, если клиент прислал Accept-Encoding: gzip.
var WithGzip = chimw.Compress(5, "application/json", "text/plain")
