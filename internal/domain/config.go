package domain

// KeyPrefix namespaces every key storedex writes to the database.
const KeyPrefix = "storedex:"
