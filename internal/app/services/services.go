package services

// Services defined in this package:
// - AuthService: Handles admin authentication and token issuance
// - CatalogService: Handles read access to terms, subjects and courses
// - SyncService: Handles fetch, normalize, merge and store pipelines
