package plugins

import (
	"context"
	"fmt"

	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"absenceio/config"
	"absenceio/def"
	"absenceio/log"
	"absenceio/storage"
)

// MongoStore answers queries from a MongoDB database, one collection per
// endpoint.
type MongoStore struct {
	session  *mgo.Session
	database string
}

func init() {
	storage.Add("mongodb", func(config config.Config) (def.Storager, error) {
		return Dial(config.Mongo.MongoServer, config.Mongo.Database)
	})
}

func Dial(url, database string) (*MongoStore, error) {
	log.Infof("dial mongodb: %s", url)
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("mgo.Dial %s: %w", url, err)
	}
	if database == "" {
		database = def.DATA_BASE
	}
	return &MongoStore{session: session, database: database}, nil
}

func (srv *MongoStore) Find(ctx context.Context, collection string, query bson.D, skip, limit int) ([]bson.M, int, error) {
	session := srv.session.Copy()
	defer session.Close()
	c := session.DB(srv.database).C(collection)

	total, err := c.Find(query).Count()
	if err != nil {
		def.DBErrCount.Inc(1)
		return nil, 0, fmt.Errorf("count %s: %w", collection, err)
	}
	var docs []bson.M
	if err := c.Find(query).Skip(skip).Limit(limit).All(&docs); err != nil {
		def.DBErrCount.Inc(1)
		return nil, 0, fmt.Errorf("find %s: %w", collection, err)
	}
	return docs, total, nil
}

func (srv *MongoStore) Distinct(ctx context.Context, collection string, field string, query bson.D) ([]interface{}, error) {
	session := srv.session.Copy()
	defer session.Close()

	var values []interface{}
	if err := session.DB(srv.database).C(collection).Find(query).Distinct(field, &values); err != nil {
		def.DBErrCount.Inc(1)
		return nil, fmt.Errorf("distinct %s.%s: %w", collection, field, err)
	}
	return values, nil
}

func (srv *MongoStore) Close() error {
	srv.session.Close()
	return nil
}
