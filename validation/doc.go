// Package validation validates configuration structs with struct tags.
//
// Field names in messages come from the mapstructure tag, so an error names
// the same key a user writes in config.yml:
//
//	type PipexConfig struct {
//	    ChannelCapacity int `mapstructure:"channel_capacity" validate:"gt=0"`
//	}
//	err := validation.Validate(cfg) // INVALID_INPUT: pipex.channel_capacity: must be greater than 0
package validation
