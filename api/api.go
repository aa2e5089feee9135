// Package api holds the protobuf service definitions under proto/ and the Go
// code generated from them under gen/go/.
package api

//go:generate protoc -I proto --go_out=. --go_opt=module=github.com/louisbranch/bookshelf/api --go-grpc_out=. --go-grpc_opt=module=github.com/louisbranch/bookshelf/api usersync/v1/usersync.proto user/v1/user.proto auth/v1/auth.proto
