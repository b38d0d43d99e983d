package watcher

// ConvertEvent exposes the fsnotify conversion for tests.
var ConvertEvent = convertEvent
