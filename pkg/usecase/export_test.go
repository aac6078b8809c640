package usecase

// FrameSchema exposes the extraction schema for tests
var FrameSchema = frameSchema
