package validators

import (
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"name", "email", "password_hash", "role", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},

			"password_hash": bson.M{
				"bsonType":  "string",
				"minLength": 20,
			},

			"role": bson.M{
				"enum": []string{model.RoleClient, model.RoleDriver, model.RoleAdmin},
			},
		},
	},
}

var DriverValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"name", "email", "phone", "license_number", "status", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9][0-9]{1,14}$`,
			},

			"status": bson.M{
				"enum": []string{model.DriverStatusAvailable, model.DriverStatusBusy, model.DriverStatusInactive},
			},

			"rating": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
				"maximum":  5,
			},
		},
	},
}
