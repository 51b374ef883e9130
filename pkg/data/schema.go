/*
 * Copyright (C) 2019-Present Pivotal Software, Inc. All rights reserved.
 *
 * This program and the accompanying materials are made available under the terms
 * of the Apache License, Version 2.0 (the "License”); you may not use this file
 * except in compliance with the License. You may obtain a copy of the License at:
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed
 * under the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR
 * CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 */

package data

// language=sql
var Schema = `create table if not exists scenario_runs
(
    id              integer primary key, -- aliases to rowid

    run_uuid        text    not null,
    recorded        text    not null,
    origin          text    not null,
    mode            text    not null,

    width           real    not null,
    height          real    not null,
    speed           real    not null,
    max_ticks       integer not null,

    ticks           integer not null,
    halted          integer not null
);
create unique index if not exists scenario_runs_uuid on scenario_runs (run_uuid);

create table if not exists entities
(
    id              integer primary key, -- aliases to rowid
    scenario_run_id integer not null references scenario_runs (id),

    entity_id       integer not null,
    kind            text    not null,

    start_x         real    not null,
    start_y         real    not null,
    target_x        real    not null,
    target_y        real    not null,
    final_x         real    not null,
    final_y         real    not null,

    moving          integer not null,
    ticks           integer not null
);
create unique index if not exists entity_once_per_run on entities (scenario_run_id, entity_id);

create table if not exists observations
(
    id              integer primary key, -- aliases to rowid
    scenario_run_id integer not null references scenario_runs (id),

    tick            integer not null,
    entity_id       integer not null,
    x               real    not null,
    y               real    not null,
    moving          integer not null,
    result          text    not null
);
create unique index if not exists observe_once_per_tick on observations (scenario_run_id, entity_id, tick);
`
