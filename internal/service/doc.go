// Package service contains the application use cases. Every operation is
// scoped to the acting user, passed explicitly as a uuid.UUID.
//
// RecipeService owns the nested tag/ingredient reconciliation: names supplied
// with a recipe are resolved to labels of the recipe's owner, reusing existing
// ones and creating the rest, inside the same transaction as the recipe write.
// LabelService manages one label kind (tags or ingredients). UserService
// handles registration, authentication and account updates.
//
// Services depend on the store interfaces only. Unexpected failures are
// wrapped in ServiceError; store not-found/duplicate errors and domain
// validation errors remain reachable through errors.Is/errors.As so the API
// layer can map them to status codes.
package service
